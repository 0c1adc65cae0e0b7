package memory

import "fmt"

const (
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
)

// MBCKind identifies which bank-controller protocol a cartridge speaks.
type MBCKind int

const (
	KindNoMBC MBCKind = iota
	KindMBC1
	KindMBC2
	KindMBC3
	KindMBC5
)

// CartridgeError reports a boot-time cartridge validation failure.
type CartridgeError struct {
	Reason string
}

func (e *CartridgeError) Error() string {
	return fmt.Sprintf("cartridge: %s", e.Reason)
}

// Cartridge holds the parsed ROM header plus the raw ROM bytes.
type Cartridge struct {
	Data  []byte
	Title string

	MBCType      MBCKind
	ROMBankCount int
	RAMBankCount int
	HasBattery   bool
	HasRTC       bool
	HasRumble    bool
}

var ramSizeToBankCount = map[byte]int{
	0x00: 0,
	0x01: 1, // 2 KiB, treated as a single partial bank
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

// LoadCartridge parses the header of a raw ROM image and returns a
// Cartridge ready to be wrapped in the matching MBC.
func LoadCartridge(data []byte) (*Cartridge, error) {
	const minSize = 32 * 1024
	const maxSize = 8 * 1024 * 1024

	if len(data) < minSize || len(data) > maxSize {
		return nil, &CartridgeError{Reason: fmt.Sprintf("invalid ROM size %d bytes", len(data))}
	}

	if err := verifyHeaderChecksum(data); err != nil {
		return nil, err
	}

	romSizeCode := data[romSizeAddress]
	romBankCount := 2 << romSizeCode

	ramSizeCode := data[ramSizeAddress]
	ramBankCount, ok := ramSizeToBankCount[ramSizeCode]
	if !ok {
		return nil, &CartridgeError{Reason: fmt.Sprintf("unsupported RAM size code %#x", ramSizeCode)}
	}

	kind, hasBattery, hasRTC, hasRumble, err := classifyCartridgeType(data[cartridgeTypeAddress])
	if err != nil {
		return nil, err
	}

	title := sanitizeTitle(data[titleAddress : titleAddress+titleLength])

	cart := &Cartridge{
		Data:         append([]byte(nil), data...),
		Title:        title,
		MBCType:      kind,
		ROMBankCount: romBankCount,
		RAMBankCount: ramBankCount,
		HasBattery:   hasBattery,
		HasRTC:       hasRTC,
		HasRumble:    hasRumble,
	}

	return cart, nil
}

func verifyHeaderChecksum(data []byte) error {
	var x byte
	for i := 0x0134; i <= 0x014C; i++ {
		x = x - data[i] - 1
	}
	want := data[headerChecksumAddress]
	if x != want {
		return &CartridgeError{Reason: fmt.Sprintf("header checksum mismatch: computed %#x, want %#x", x, want)}
	}
	return nil
}

func classifyCartridgeType(code byte) (kind MBCKind, hasBattery, hasRTC, hasRumble bool, err error) {
	switch code {
	case 0x00:
		return KindNoMBC, false, false, false, nil
	case 0x01, 0x02:
		return KindMBC1, false, false, false, nil
	case 0x03:
		return KindMBC1, true, false, false, nil
	case 0x05:
		return KindMBC2, false, false, false, nil
	case 0x06:
		return KindMBC2, true, false, false, nil
	case 0x0F, 0x10:
		return KindMBC3, true, true, false, nil
	case 0x11, 0x12:
		return KindMBC3, false, false, false, nil
	case 0x13:
		return KindMBC3, true, false, false, nil
	case 0x19, 0x1A:
		return KindMBC5, false, false, false, nil
	case 0x1B:
		return KindMBC5, true, false, false, nil
	case 0x1C, 0x1D:
		return KindMBC5, false, false, true, nil
	case 0x1E:
		return KindMBC5, true, false, true, nil
	default:
		return 0, false, false, false, &CartridgeError{Reason: fmt.Sprintf("unsupported cartridge type %#x", code)}
	}
}
