package skills

// VocabularyVersion identifies the keyword list below. Bump it whenever the
// list or its order changes, since extraction output depends on both.
const VocabularyVersion = "2024.1"

// vocabulary is scanned in order; entries are the canonical lowercase form.
var vocabulary = []string{
	// frameworks
	"react", "vue", "angular", "nodejs", "express", "fastapi", "django", "flask",
	// languages commonly named in repository descriptions
	"typescript", "javascript", "python", "java", "golang", "rust", "php",
	// cloud and infrastructure
	"docker", "kubernetes", "aws", "gcp", "azure", "terraform", "jenkins",
	// datastores
	"mongodb", "postgresql", "mysql", "redis", "elasticsearch",
	// frontend tooling
	"nextjs", "nuxt", "svelte", "tailwind", "bootstrap", "material-ui",
	// architecture
	"graphql", "rest", "api", "microservices", "serverless",
}
