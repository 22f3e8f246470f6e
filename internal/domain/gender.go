package domain

type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
)

// IsValidGender accepts the fixed enum. The empty value means "not provided".
func IsValidGender(g string) bool {
	switch Gender(g) {
	case GenderUnspecified, GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}
