package content

// Route prefixes for generated pages.
const (
	RootRoute      = "/"
	RoleHubRoute   = "/resume-for"
	BlogIndexRoute = "/blog"
)

// RoleRoute returns the landing page route for a job role.
func RoleRoute(slug string) string { return RoleHubRoute + "/" + slug }

// PostRoute returns the article route for a blog post.
func PostRoute(slug string) string { return BlogIndexRoute + "/" + slug }
