package relevance

// DefaultKeywords is the domain vocabulary used to gate sources and score
// articles when the configuration does not override it.
var DefaultKeywords = []string{
	"zdraví", "medicína", "nemoc", "epidemie", "bakterie",
	"virus", "infekce", "léčba", "prevence", "studie",
	"výzkum", "nádor", "srdce", "mozek", "operace",
	"léky", "zajímavost", "věda",
}
