package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/richard-senior/footform/internal/logger"
	"gopkg.in/yaml.v3"
)

// FootformConfig holds every tunable the pipeline and models use.
// Paths are created on demand, synonym tables may be extended from yaml.
type FootformConfig struct {
	// directories
	DataRawPath       string `yaml:"dataRawPath"`
	DataProcessedPath string `yaml:"dataProcessedPath"`
	ResultsPath       string `yaml:"resultsPath"`
	CachePath         string `yaml:"cachePath"`
	DatabasePath      string `yaml:"databasePath"`

	// source data
	LeagueCode    string   `yaml:"leagueCode"`
	Seasons       []string `yaml:"seasons"`
	OddsBaseURL   string   `yaml:"oddsBaseUrl"`
	StatsFileName string   `yaml:"statsFileName"`

	// matches on or after this date are held out of training entirely
	CutoffDate string `yaml:"cutoffDate"`

	// rolling feature windows
	RollWindowShort int `yaml:"rollWindowShort"`
	RollWindowLong  int `yaml:"rollWindowLong"`
	RollWindowVenue int `yaml:"rollWindowVenue"`

	// model training
	TrainFraction        float64 `yaml:"trainFraction"`
	LogisticIterations   int     `yaml:"logisticIterations"`
	LogisticLearningRate float64 `yaml:"logisticLearningRate"`

	// name canonicalisation
	TeamSynonyms    map[string]string `yaml:"teamSynonyms"`
	RefereeSynonyms map[string]string `yaml:"refereeSynonyms"`
}

// Config is the global application configuration
var Config *FootformConfig

func init() {
	Config = DefaultFootformConfig()
}

// DefaultFootformConfig returns the configuration used when no yaml
// override is supplied. The synonym tables cover the Premier League
// squads seen in the 2021-2025 seasons.
func DefaultFootformConfig() *FootformConfig {
	return &FootformConfig{
		DataRawPath:       "data/raw",
		DataProcessedPath: "data/processed",
		ResultsPath:       "results",
		CachePath:         "data/cache",
		DatabasePath:      "data/footform.db",

		LeagueCode:    "E0",
		Seasons:       []string{"2021-2022", "2022-2023", "2023-2024", "2024-2025"},
		OddsBaseURL:   "https://www.football-data.co.uk/mmz4281/%s/%s.csv",
		StatsFileName: "matchdata_21-25.csv",

		CutoffDate: "2025-01-26",

		RollWindowShort: 5,
		RollWindowLong:  10,
		RollWindowVenue: 5,

		TrainFraction:        0.8,
		LogisticIterations:   2000,
		LogisticLearningRate: 0.05,

		TeamSynonyms: map[string]string{
			"arsenal":                  "arsenal",
			"chelsea":                  "chelsea",
			"liverpool":                "liverpool",
			"manchester city":          "manchester city",
			"man city":                 "manchester city",
			"manchester united":        "manchester united",
			"man united":               "manchester united",
			"man utd":                  "manchester united",
			"manchester utd":           "manchester united",
			"mu":                       "manchester united",
			"tottenham":                "tottenham hotspur",
			"tottenham hotspurs":       "tottenham hotspur",
			"tottenham hotspur":        "tottenham hotspur",
			"spurs":                    "tottenham hotspur",
			"aston villa":              "aston villa",
			"villa":                    "aston villa",
			"bournemouth":              "bournemouth",
			"afc bournemouth":          "bournemouth",
			"brentford":                "brentford",
			"brighton":                 "brighton and hove albion",
			"brighton hove albion":     "brighton and hove albion",
			"brighton and hove albion": "brighton and hove albion",
			"burnley":                  "burnley",
			"crystal palace":           "crystal palace",
			"palace":                   "crystal palace",
			"everton":                  "everton",
			"fulham":                   "fulham",
			"ipswich":                  "ipswich town",
			"ipswich town":             "ipswich town",
			"leeds":                    "leeds united",
			"leeds united":             "leeds united",
			"leicester":                "leicester city",
			"leicester city":           "leicester city",
			"luton":                    "luton town",
			"luton town":               "luton town",
			"newcastle":                "newcastle united",
			"newcastle utd":            "newcastle united",
			"newcastle united":         "newcastle united",
			"forest":                   "nottingham forest",
			"nottingham":               "nottingham forest",
			"nottingham forest":        "nottingham forest",
			"nott'ham forest":          "nottingham forest",
			"nott'm forest":            "nottingham forest",
			"norwich":                  "norwich city",
			"norwich city":             "norwich city",
			"sheffield":                "sheffield united",
			"sheffield utd":            "sheffield united",
			"sheffield united":         "sheffield united",
			"southampton":              "southampton",
			"west ham":                 "west ham united",
			"west ham utd":             "west ham united",
			"west ham united":          "west ham united",
			"wolves":                   "wolverhampton wanderers",
			"wolverhampton":            "wolverhampton wanderers",
			"wolverhampton wanderers":  "wolverhampton wanderers",
		},

		RefereeSynonyms: map[string]string{
			"M Oliver":     "Michael Oliver",
			"P Tierney":    "Paul Tierney",
			"D Coote":      "David Coote",
			"J Moss":       "Jonathan Moss",
			"A Madley":     "Andy Madley",
			"C Pawson":     "Craig Pawson",
			"M Dean":       "Mike Dean",
			"A Marriner":   "Andre Marriner",
			"T Harrington": "Tony Harrington",
			"R Jones":      "Robert Jones",
			"S Hooper":     "Simon Hooper",
			"J Gillett":    "Jarred Gillett",
			"T Robinson":   "Tim Robinson",
		},
	}
}

// LoadConfig reads a yaml file and overlays it on the defaults.
// Synonym tables in the file extend rather than replace the built-in ones.
func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	overlay := &FootformConfig{}
	if err := yaml.Unmarshal(data, overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	base := DefaultFootformConfig()
	mergeConfig(base, overlay)
	Config = base

	if err := ValidateConfig(); err != nil {
		return err
	}
	logger.Info("loaded configuration from", path)
	return nil
}

func mergeConfig(base, overlay *FootformConfig) {
	if overlay.DataRawPath != "" {
		base.DataRawPath = overlay.DataRawPath
	}
	if overlay.DataProcessedPath != "" {
		base.DataProcessedPath = overlay.DataProcessedPath
	}
	if overlay.ResultsPath != "" {
		base.ResultsPath = overlay.ResultsPath
	}
	if overlay.CachePath != "" {
		base.CachePath = overlay.CachePath
	}
	if overlay.DatabasePath != "" {
		base.DatabasePath = overlay.DatabasePath
	}
	if overlay.LeagueCode != "" {
		base.LeagueCode = overlay.LeagueCode
	}
	if len(overlay.Seasons) > 0 {
		base.Seasons = overlay.Seasons
	}
	if overlay.OddsBaseURL != "" {
		base.OddsBaseURL = overlay.OddsBaseURL
	}
	if overlay.StatsFileName != "" {
		base.StatsFileName = overlay.StatsFileName
	}
	if overlay.CutoffDate != "" {
		base.CutoffDate = overlay.CutoffDate
	}
	if overlay.RollWindowShort > 0 {
		base.RollWindowShort = overlay.RollWindowShort
	}
	if overlay.RollWindowLong > 0 {
		base.RollWindowLong = overlay.RollWindowLong
	}
	if overlay.RollWindowVenue > 0 {
		base.RollWindowVenue = overlay.RollWindowVenue
	}
	if overlay.TrainFraction > 0 {
		base.TrainFraction = overlay.TrainFraction
	}
	if overlay.LogisticIterations > 0 {
		base.LogisticIterations = overlay.LogisticIterations
	}
	if overlay.LogisticLearningRate > 0 {
		base.LogisticLearningRate = overlay.LogisticLearningRate
	}
	for k, v := range overlay.TeamSynonyms {
		base.TeamSynonyms[k] = v
	}
	for k, v := range overlay.RefereeSynonyms {
		base.RefereeSynonyms[k] = v
	}
}

// ValidateConfig checks the configuration for obvious mistakes
func ValidateConfig() error {
	if Config == nil {
		return fmt.Errorf("configuration is nil")
	}
	if Config.RollWindowShort <= 0 || Config.RollWindowLong <= 0 || Config.RollWindowVenue <= 0 {
		return fmt.Errorf("rolling windows must be positive")
	}
	if Config.TrainFraction <= 0 || Config.TrainFraction >= 1 {
		return fmt.Errorf("trainFraction must be between 0 and 1, got %f", Config.TrainFraction)
	}
	if len(Config.Seasons) == 0 {
		return fmt.Errorf("at least one season must be configured")
	}
	for _, s := range Config.Seasons {
		if _, err := ParseSeason(s); err != nil {
			return fmt.Errorf("invalid season %q: %w", s, err)
		}
	}
	if _, err := ParseDate(Config.CutoffDate); err != nil {
		return fmt.Errorf("invalid cutoffDate %q: %w", Config.CutoffDate, err)
	}
	return nil
}

// EnsureDirectories creates the configured data directories if missing
func EnsureDirectories() error {
	dirs := []string{
		Config.DataRawPath,
		Config.DataProcessedPath,
		Config.ResultsPath,
		Config.CachePath,
		filepath.Dir(Config.DatabasePath),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}

// ModelDataFile is the final pipeline artefact, the table every
// modelling command reads
const ModelDataFile = "model_data.csv"

// ProcessedFile returns the path of a processed pipeline artefact
func ProcessedFile(name string) string {
	return filepath.Join(Config.DataProcessedPath, name)
}

// ResultsFile returns the path of a model output artefact
func ResultsFile(name string) string {
	return filepath.Join(Config.ResultsPath, name)
}
