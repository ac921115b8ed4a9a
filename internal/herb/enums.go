package herb

// Category is the functional class of a medicinal substance.
type Category string

const (
	CategoryOpeningOrifices   Category = "opening-orifices"
	CategoryWindExtinguishing Category = "wind-extinguishing"
	CategoryBloodActivating   Category = "blood-activating"
	CategoryQiTonifying       Category = "qi-tonifying"
	CategoryHeatClearing      Category = "heat-clearing"
	CategoryPhlegmResolving   Category = "phlegm-resolving"
	CategoryCalming           Category = "calming"
	// CategoryUnknown is assigned by the normalizer when a source omits the column.
	CategoryUnknown Category = "unknown"
)

// Nature is the thermal character (four qi).
type Nature string

const (
	NatureWarm    Nature = "warm"
	NatureNeutral Nature = "neutral"
	NatureCold    Nature = "cold"
	NatureCool    Nature = "cool"
	NatureHot     Nature = "hot"
)

// Flavor is one of the five flavors.
type Flavor string

const (
	FlavorPungent Flavor = "pungent"
	FlavorBitter  Flavor = "bitter"
	FlavorSweet   Flavor = "sweet"
	FlavorSour    Flavor = "sour"
	FlavorSalty   Flavor = "salty"
)

// Meridian is the channel a substance is said to enter.
type Meridian string

const (
	MeridianLiver   Meridian = "liver"
	MeridianHeart   Meridian = "heart"
	MeridianSpleen  Meridian = "spleen"
	MeridianLung    Meridian = "lung"
	MeridianKidney  Meridian = "kidney"
	MeridianStomach Meridian = "stomach"
)

// Era is the historical period in which a substance peaked in use.
// AllEras lists them chronologically.
type Era string

const (
	EraHan          Era = "han"
	EraTang         Era = "tang"
	EraSong         Era = "song"
	EraJinYuan      Era = "jin-yuan"
	EraMing         Era = "ming"
	EraQing         Era = "qing"
	EraContemporary Era = "contemporary"
)

// AllCategories returns the closed category taxonomy in display order.
func AllCategories() []Category {
	return []Category{
		CategoryOpeningOrifices, CategoryWindExtinguishing, CategoryBloodActivating,
		CategoryQiTonifying, CategoryHeatClearing, CategoryPhlegmResolving,
		CategoryCalming, CategoryUnknown,
	}
}

// AllNatures returns every nature in display order.
func AllNatures() []Nature {
	return []Nature{NatureWarm, NatureNeutral, NatureCold, NatureCool, NatureHot}
}

// AllFlavors returns every flavor in display order.
func AllFlavors() []Flavor {
	return []Flavor{FlavorPungent, FlavorBitter, FlavorSweet, FlavorSour, FlavorSalty}
}

// AllMeridians returns every meridian in display order.
func AllMeridians() []Meridian {
	return []Meridian{MeridianLiver, MeridianHeart, MeridianSpleen, MeridianLung, MeridianKidney, MeridianStomach}
}

// AllEras returns every era, oldest first.
func AllEras() []Era {
	return []Era{EraHan, EraTang, EraSong, EraJinYuan, EraMing, EraQing, EraContemporary}
}

func (c Category) Valid() bool { return contains(AllCategories(), c) }
func (n Nature) Valid() bool   { return contains(AllNatures(), n) }
func (f Flavor) Valid() bool   { return contains(AllFlavors(), f) }
func (m Meridian) Valid() bool { return contains(AllMeridians(), m) }
func (e Era) Valid() bool      { return contains(AllEras(), e) }

func contains[T comparable](all []T, v T) bool {
	for _, x := range all {
		if x == v {
			return true
		}
	}
	return false
}
