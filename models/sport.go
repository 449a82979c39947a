package models

// Sport — фиксированный набор секций, под которые открыта регистрация.
type Sport string

const (
	SportFootball   Sport = "football"
	SportBaseball   Sport = "baseball"
	SportSoccer     Sport = "soccer"
	SportBasketball Sport = "basketball"
)

func AllSports() []Sport {
	return []Sport{SportFootball, SportBaseball, SportSoccer, SportBasketball}
}

func (s Sport) Valid() bool {
	switch s {
	case SportFootball, SportBaseball, SportSoccer, SportBasketball:
		return true
	default:
		return false
	}
}
