package cfg

type Cfg struct {
	// Feed configuration
	FeedsDir    string
	CatalogFile string
	Delimiter   rune

	// Storage configuration
	DBDSN string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
