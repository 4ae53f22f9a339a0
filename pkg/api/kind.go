package api

// Kind is the closed set of block variants the renderer knows.
type Kind int

const (
	// KindUnknown is any discriminator not listed below.
	KindUnknown Kind = iota
	// KindRecord is a block without a discriminator: a database row.
	KindRecord
	KindParagraph
	KindHeading1
	KindHeading2
	KindHeading3
	KindBulletedList
	KindNumberedList
	KindBulletedListItem
	KindNumberedListItem
	KindToDo
	KindToggle
	KindChildPage
	KindImage
	KindDivider
	KindQuote
	KindCode
	KindFile
	KindBookmark
	KindTable
	KindTableRow
	KindColumnList
	KindColumn
	KindCallout
	KindChildDatabase
)

var kindByType = map[string]Kind{
	"paragraph":          KindParagraph,
	"heading_1":          KindHeading1,
	"heading_2":          KindHeading2,
	"heading_3":          KindHeading3,
	"bulleted_list":      KindBulletedList,
	"numbered_list":      KindNumberedList,
	"bulleted_list_item": KindBulletedListItem,
	"numbered_list_item": KindNumberedListItem,
	"to_do":              KindToDo,
	"toggle":             KindToggle,
	"child_page":         KindChildPage,
	"image":              KindImage,
	"divider":            KindDivider,
	"quote":              KindQuote,
	"code":               KindCode,
	"file":               KindFile,
	"bookmark":           KindBookmark,
	"table":              KindTable,
	"table_row":          KindTableRow,
	"column_list":        KindColumnList,
	"column":             KindColumn,
	"callout":            KindCallout,
	"child_database":     KindChildDatabase,
}

// ParseKind maps a discriminator to its Kind. An empty discriminator is a
// record; anything unlisted is KindUnknown.
func ParseKind(t string) Kind {
	if t == "" {
		return KindRecord
	}
	if k, ok := kindByType[t]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindUnknown:
		return "unknown"
	}
	for t, kk := range kindByType {
		if kk == k {
			return t
		}
	}
	return "unknown"
}

// Kinds lists every Kind, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, KindChildDatabase+1)
	for k := KindUnknown; k <= KindChildDatabase; k++ {
		out = append(out, k)
	}
	return out
}
