package domain

type PremiumTier string

const (
	TierNone     PremiumTier = "none"
	TierBasic    PremiumTier = "basic"
	TierStandard PremiumTier = "standard"
	TierElite    PremiumTier = "elite"
)

func (t PremiumTier) Valid() bool {
	switch t {
	case TierNone, TierBasic, TierStandard, TierElite:
		return true
	}
	return false
}
