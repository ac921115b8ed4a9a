package dataset

import (
	"github.com/starford/herbscope/internal/herb"
	"github.com/starford/herbscope/internal/textutil"
)

// Local-script labels accepted in place of the canonical enum tags.

var categoryLabels = map[string]herb.Category{
	"开窍": herb.CategoryOpeningOrifices, "开窍药": herb.CategoryOpeningOrifices,
	"息风": herb.CategoryWindExtinguishing, "熄风": herb.CategoryWindExtinguishing, "息风止痉药": herb.CategoryWindExtinguishing,
	"活血": herb.CategoryBloodActivating, "活血化瘀药": herb.CategoryBloodActivating,
	"补气": herb.CategoryQiTonifying, "补气药": herb.CategoryQiTonifying,
	"清热": herb.CategoryHeatClearing, "清热药": herb.CategoryHeatClearing,
	"化痰": herb.CategoryPhlegmResolving, "化痰药": herb.CategoryPhlegmResolving,
	"安神": herb.CategoryCalming, "安神药": herb.CategoryCalming,
	"未知": herb.CategoryUnknown,
}

var natureLabels = map[string]herb.Nature{
	"温": herb.NatureWarm, "平": herb.NatureNeutral, "寒": herb.NatureCold,
	"凉": herb.NatureCool, "热": herb.NatureHot,
}

var flavorLabels = map[string]herb.Flavor{
	"辛": herb.FlavorPungent, "苦": herb.FlavorBitter, "甘": herb.FlavorSweet,
	"酸": herb.FlavorSour, "咸": herb.FlavorSalty,
}

var meridianLabels = map[string]herb.Meridian{
	"肝": herb.MeridianLiver, "肝经": herb.MeridianLiver,
	"心": herb.MeridianHeart, "心经": herb.MeridianHeart,
	"脾": herb.MeridianSpleen, "脾经": herb.MeridianSpleen,
	"肺": herb.MeridianLung, "肺经": herb.MeridianLung,
	"肾": herb.MeridianKidney, "肾经": herb.MeridianKidney,
	"胃": herb.MeridianStomach, "胃经": herb.MeridianStomach,
}

var eraLabels = map[string]herb.Era{
	"汉": herb.EraHan, "汉代": herb.EraHan,
	"唐": herb.EraTang, "唐代": herb.EraTang,
	"宋": herb.EraSong, "宋代": herb.EraSong,
	"金元": herb.EraJinYuan, "jinyuan": herb.EraJinYuan,
	"明": herb.EraMing, "明代": herb.EraMing,
	"清": herb.EraQing, "清代": herb.EraQing,
	"当代": herb.EraContemporary, "现代": herb.EraContemporary, "modern": herb.EraContemporary,
}

// label maps raw to an enum value: a known local label wins, otherwise the
// kebab-case form of raw is used as-is and left for validation to judge.
func label[T ~string](raw string, labels map[string]T) T {
	if v, ok := labels[textutil.Key(raw)]; ok {
		return v
	}
	return T(textutil.Tag(raw))
}
