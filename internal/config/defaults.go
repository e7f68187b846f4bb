package config

// Defaults mirror the historical deployment layout: rosters and templates live
// in the working directory, certificates are cached under ./certificates, and
// the frontend build is published from frontend/dist into ./dist.
const (
	DefaultConfigPath      = "config.yaml"
	DefaultRosterCSV       = "students.csv"
	DefaultManagementCSV   = "management.csv"
	DefaultTemplatesDir    = "templates"
	DefaultCertificatesDir = "certificates"
	DefaultFrontendDist    = "frontend/dist"
	DefaultPublishDir      = "dist"

	DefaultListen      = ":8000"
	DefaultAdminListen = ":9090"

	DefaultIDPrefix           = "CERT"
	DefaultTemplate           = "templates/certificate_template.jpg"
	DefaultManagementTemplate = "templates/CertificateManagement.jpeg"
	DefaultNameColor          = "#000000"
	DefaultMarginRatio        = 0.12
	DefaultYRatio             = 0.62
	DefaultMinFontSize        = 14

	DefaultSubjectPrefix = "certdist"
)

// Default returns a Config populated with defaults. Loading a config file and
// env overrides layer on top of this.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			RosterCSV:       DefaultRosterCSV,
			ManagementCSV:   DefaultManagementCSV,
			TemplatesDir:    DefaultTemplatesDir,
			CertificatesDir: DefaultCertificatesDir,
			FrontendDist:    DefaultFrontendDist,
			PublishDir:      DefaultPublishDir,
		},
		Server: ServerConfig{
			Listen:           DefaultListen,
			AdminListen:      DefaultAdminListen,
			CORSAllowOrigins: []string{"*"},
		},
		Certificate: CertificateConfig{
			IDPrefix:           DefaultIDPrefix,
			Template:           DefaultTemplate,
			ManagementTemplate: DefaultManagementTemplate,
			NameColor:          DefaultNameColor,
			MarginRatio:        DefaultMarginRatio,
			YRatio:             DefaultYRatio,
			MinFontSize:        DefaultMinFontSize,
		},
		Events: EventsConfig{
			SubjectPrefix: DefaultSubjectPrefix,
		},
	}
}
