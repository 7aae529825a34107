package constant

// Category is the sport a reminder belongs to.
type Category string

const (
	CategoryCricket     Category = "Cricket"
	CategoryDarts       Category = "Darts"
	CategoryRugbyUnion  Category = "Rugby Union"
	CategoryRugbyLeague Category = "Rugby League"
	CategoryMotorSports Category = "MotorSports"
	CategoryAussieRules Category = "Aussie Rules"
	CategoryBoxing      Category = "Boxing"
	CategorySnooker     Category = "Snooker"
)

// categories is the fixed set in display order.
var categories = []Category{
	CategoryCricket,
	CategoryDarts,
	CategoryRugbyUnion,
	CategoryRugbyLeague,
	CategoryMotorSports,
	CategoryAussieRules,
	CategoryBoxing,
	CategorySnooker,
}

// Categories returns a copy of the category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether name is one of the configured categories.
// Matching is exact: "cricket" is not "Cricket".
func IsCategory(name string) bool {
	for _, c := range categories {
		if string(c) == name {
			return true
		}
	}
	return false
}
