package memory

// MBC is the common surface for the cartridge's bank-controller state. Each
// variant's bank-selection protocol is different enough (MBC1's mode flag,
// MBC2's built-in nibble RAM, MBC3's RTC window, MBC5's 9-bit ROM bank) that
// sharing behavior across them via embedding/inheritance would obscure more
// than it would save; they are five independent implementations of the same
// interface instead.
type MBC interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	SaveData() []byte
	LoadSaveData(data []byte)
}

// NewMBC constructs the bank controller matching cart's declared type,
// wrapping its ROM and allocating its RAM.
func NewMBC(cart *Cartridge) MBC {
	ramSize := cart.RAMBankCount * 0x2000
	ram := make([]byte, ramSize)

	switch cart.MBCType {
	case KindNoMBC:
		return &NoMBC{rom: cart.Data}
	case KindMBC1:
		return &MBC1{rom: cart.Data, ram: ram, romBankCount: cart.ROMBankCount}
	case KindMBC2:
		return &MBC2{rom: cart.Data, ram: make([]byte, 512), romBankCount: cart.ROMBankCount}
	case KindMBC3:
		mbc3 := &MBC3{rom: cart.Data, ram: ram, romBankCount: cart.ROMBankCount, hasRTC: cart.HasRTC}
		if cart.HasRTC {
			mbc3.rtc = NewRTC()
		}
		return mbc3
	case KindMBC5:
		return &MBC5{rom: cart.Data, ram: ram, romBankCount: cart.ROMBankCount}
	default:
		return &NoMBC{rom: cart.Data}
	}
}
