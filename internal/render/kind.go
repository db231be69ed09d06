package render

// Kind identifies which template renders a route.
type Kind string

const (
	KindJobRole   Kind = "job-role"
	KindBlogPost  Kind = "blog-post"
	KindHub       Kind = "hub"
	KindBlogIndex Kind = "blog-index"
	KindStatic    Kind = "static"
)

// Kinds lists every page kind in report order.
var Kinds = []Kind{KindJobRole, KindBlogPost, KindHub, KindBlogIndex, KindStatic}

func (k Kind) String() string { return string(k) }

func (k Kind) template() string {
	switch k {
	case KindJobRole:
		return "role.gohtml"
	case KindBlogPost:
		return "post.gohtml"
	case KindHub:
		return "hub.gohtml"
	case KindBlogIndex:
		return "blogindex.gohtml"
	default:
		return "static.gohtml"
	}
}
