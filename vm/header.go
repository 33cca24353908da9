package vm

// ---------------------------------------------------------------------------
// Header layout
// ---------------------------------------------------------------------------

// headerSize is the fixed length of the story header. The header is dynamic
// memory but read-only to the story; the interpreter patches it during reset.
const headerSize = 64

// Byte offsets of the header fields the core consumes.
const (
	hdrVersion          = 0x00
	hdrFlags1           = 0x01
	hdrRelease          = 0x02
	hdrHighMemBase      = 0x04
	hdrInitialPC        = 0x06
	hdrDictionary       = 0x08
	hdrObjectTable      = 0x0A
	hdrGlobals          = 0x0C
	hdrStaticBase       = 0x0E
	hdrFlags2           = 0x10
	hdrSerial           = 0x12 // 6 bytes
	hdrAbbreviations    = 0x18
	hdrFileLength       = 0x1A
	hdrChecksum         = 0x1C
	hdrInterpNumber     = 0x1E
	hdrInterpVersion    = 0x1F
	hdrScreenHeight     = 0x20
	hdrScreenWidth      = 0x21
	hdrScreenWidthU     = 0x22
	hdrScreenHeightU    = 0x24
	hdrFontWidth        = 0x26
	hdrFontHeight       = 0x27
	hdrRoutinesOffset   = 0x28
	hdrStringsOffset    = 0x2A
	hdrStandardRevMajor = 0x32
	hdrStandardRevMinor = 0x33
	hdrAlphabetTable    = 0x34
	hdrExtensionTable   = 0x36
)

// Flags1 bits, version 1-3 meanings.
const (
	flag1StatusUnavailable = 0x10
	flag1ScreenSplit       = 0x20
	flag1VariablePitch     = 0x40
)

// Flags1 bits, version 4+ meanings.
const (
	flag1Colours     = 0x01
	flag1Pictures    = 0x02
	flag1Boldface    = 0x04
	flag1Italic      = 0x08
	flag1FixedSpace  = 0x10
	flag1SoundEffect = 0x20
	flag1Timed       = 0x80
)

// Flags2 bits. Reset clears the pictures, mouse and sound bits, capabilities
// we do not provide.
const (
	flag2Transcript = 0x0001
	flag2FixedPitch = 0x0002
	flag2Pictures   = 0x0008
	flag2UndoAvail  = 0x0010
	flag2Mouse      = 0x0020
	flag2Sound      = 0x0080
)
