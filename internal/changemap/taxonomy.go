// Package changemap maps change descriptions (semantic LLM output or raw git
// diff signals) onto the diagram nodes whose content they make stale, and
// classifies how much of the diagram the change touches.
package changemap

// Category identifies a pipeline step family in the keyword taxonomy.
type Category string

const (
	CategoryChunking   Category = "chunking"
	CategoryEmbedding  Category = "embedding"
	CategoryStorage    Category = "storage"
	CategoryCache      Category = "cache"
	CategoryVectorDB   Category = "vectordb"
	CategoryDatabase   Category = "database"
	CategoryIngestion  Category = "ingestion"
	CategoryProcessing Category = "processing"
)

// categoryOrder fixes iteration order over the taxonomy.
var categoryOrder = []Category{
	CategoryChunking,
	CategoryEmbedding,
	CategoryStorage,
	CategoryCache,
	CategoryVectorDB,
	CategoryDatabase,
	CategoryIngestion,
	CategoryProcessing,
}

// stepKeywords maps each category to the lowercase tokens that identify it in
// node labels, file names, function names, and config keys. The table is
// additive: extending a category or adding one must not change how existing
// keywords map.
var stepKeywords = map[Category][]string{
	CategoryChunking:   {"chunk", "split", "textsplitter", "chunk_size", "chunk_overlap"},
	CategoryEmbedding:  {"embedding", "embed", "openai", "model", "text-embedding"},
	CategoryStorage:    {"bucket", "gcs", "storage", "upload", "download"},
	CategoryCache:      {"pickle", "pkl", "cache", "dump", "load"},
	CategoryVectorDB:   {"pinecone", "turbopuffer", "weaviate", "upsert", "namespace", "index"},
	CategoryDatabase:   {"firestore", "mongodb", "collection", "document"},
	CategoryIngestion:  {"ingest", "read", "load", "source", "input"},
	CategoryProcessing: {"process", "transform", "parse"},
}
