package mhf

import (
	"errors"
	"fmt"
)

// ErrUnknownStall reports a stall code outside the known variant set.
// Event data is server-trusted, so an unknown code means the client and
// server disagree on the protocol and the launch must not proceed.
var ErrUnknownStall = errors.New("mhf: unknown stall code")

// Stall is a typed category of in-event vendor. The numeric values are
// the wire codes the sign server reports.
type Stall uint32

const (
	StallPointExchange     Stall = 1
	StallTokotokoPartnya   Stall = 2
	StallUrukiPachinko     Stall = 3
	StallGuukuScoop        Stall = 4
	StallNyanrendo         Stall = 5
	StallPanicHoney        Stall = 6
	StallDokkanBattleCats  Stall = 7
	StallVolpakkunTogether Stall = 8
)

func (s Stall) String() string {
	switch s {
	case StallPointExchange:
		return "Point Exchange"
	case StallTokotokoPartnya:
		return "Tokotoko Partnya"
	case StallUrukiPachinko:
		return "Uruki Pachinko"
	case StallGuukuScoop:
		return "Guuku Scoop"
	case StallNyanrendo:
		return "Nyanrendo"
	case StallPanicHoney:
		return "Panic Honey"
	case StallDokkanBattleCats:
		return "Dokkan Battle Cats"
	case StallVolpakkunTogether:
		return "Volpakkun Together"
	default:
		return "unknown"
	}
}

// StallFromCode translates a raw wire code into its typed variant.
func StallFromCode(code uint32) (Stall, error) {
	switch Stall(code) {
	case StallPointExchange, StallTokotokoPartnya, StallUrukiPachinko,
		StallGuukuScoop, StallNyanrendo, StallPanicHoney,
		StallDokkanBattleCats, StallVolpakkunTogether:
		return Stall(code), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownStall, code)
	}
}

// StallsFromCodes translates a stall code sequence, failing on the first
// unknown code.
func StallsFromCodes(codes []uint32) ([]Stall, error) {
	stalls := make([]Stall, 0, len(codes))
	for _, code := range codes {
		s, err := StallFromCode(code)
		if err != nil {
			return nil, err
		}
		stalls = append(stalls, s)
	}
	return stalls, nil
}
