package reference

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/anjiri1684/agriconnect/apperror"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var assets embed.FS

const (
	defaultSoilColor      = "#8B4513"
	defaultFertilityColor = "#FFD700"
	// CategoryAll disables the category filter.
	CategoryAll = "all"
)

type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

type ClimateSummary struct {
	Temperature string `yaml:"temperature" json:"temperature"`
	Humidity    string `yaml:"humidity" json:"humidity"`
	Rainfall    string `yaml:"rainfall" json:"rainfall"`
	Forecast    string `yaml:"forecast" json:"forecast"`
	Season      string `yaml:"season" json:"season"`
}

type SoilProfile struct {
	Region           string         `yaml:"name" json:"region"`
	SoilType         string         `yaml:"soil_type" json:"soil_type"`
	PH               string         `yaml:"ph" json:"ph"`
	OrganicMatter    string         `yaml:"organic_matter" json:"organic_matter"`
	Drainage         string         `yaml:"drainage" json:"drainage"`
	Fertility        string         `yaml:"fertility" json:"fertility"`
	RecommendedCrops []string       `yaml:"recommended_crops" json:"recommended_crops"`
	Challenges       []string       `yaml:"challenges" json:"challenges"`
	Coordinates      Coordinates    `yaml:"coordinates" json:"coordinates"`
	Color            string         `yaml:"color" json:"color"`
	Weather          ClimateSummary `yaml:"weather" json:"weather"`

	SoilTypeColor  string `yaml:"-" json:"soil_type_color"`
	FertilityColor string `yaml:"-" json:"fertility_color"`
}

type CurrentConditions struct {
	Temperature int    `yaml:"temperature" json:"temperature"`
	Humidity    int    `yaml:"humidity" json:"humidity"`
	WindSpeed   int    `yaml:"wind_speed" json:"wind_speed"`
	Pressure    int    `yaml:"pressure" json:"pressure"`
	Visibility  int    `yaml:"visibility" json:"visibility"`
	UVIndex     int    `yaml:"uv_index" json:"uv_index"`
	Condition   string `yaml:"condition" json:"condition"`
	Icon        string `yaml:"icon" json:"icon"`
	FeelsLike   int    `yaml:"feels_like" json:"feels_like"`
}

type DailyForecast struct {
	Day           string `yaml:"day" json:"day"`
	High          int    `yaml:"high" json:"high"`
	Low           int    `yaml:"low" json:"low"`
	Condition     string `yaml:"condition" json:"condition"`
	Icon          string `yaml:"icon" json:"icon"`
	Precipitation int    `yaml:"precipitation" json:"precipitation"`
}

type WeatherAlert struct {
	Type     string `yaml:"type" json:"type"`
	Title    string `yaml:"title" json:"title"`
	Message  string `yaml:"message" json:"message"`
	Severity string `yaml:"severity" json:"severity"`
}

type FarmingInsights struct {
	SoilMoisture             string `yaml:"soil_moisture" json:"soil_moisture"`
	IrrigationRecommendation string `yaml:"irrigation_recommendation" json:"irrigation_recommendation"`
	PestRisk                 string `yaml:"pest_risk" json:"pest_risk"`
	HarvestWindow            string `yaml:"harvest_window" json:"harvest_window"`
}

type WeatherReport struct {
	Location        string            `yaml:"-" json:"location"`
	Current         CurrentConditions `yaml:"current" json:"current"`
	Forecast        []DailyForecast   `yaml:"forecast" json:"forecast"`
	Alerts          []WeatherAlert    `yaml:"alerts" json:"alerts"`
	FarmingInsights FarmingInsights   `yaml:"farming_insights" json:"farming_insights"`
}

type Category struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type Group struct {
	ID           int      `yaml:"id" json:"id"`
	Platform     string   `yaml:"platform" json:"platform"`
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description" json:"description"`
	Members      int      `yaml:"members" json:"members"`
	Category     string   `yaml:"category" json:"category"`
	Location     string   `yaml:"location" json:"location"`
	Language     string   `yaml:"language,omitempty" json:"language,omitempty"`
	Link         string   `yaml:"link" json:"link"`
	Admin        string   `yaml:"admin" json:"admin"`
	LastActivity string   `yaml:"last_activity" json:"last_activity"`
	Posts        int      `yaml:"posts,omitempty" json:"posts,omitempty"`
	Topics       []string `yaml:"topics" json:"topics"`
}

type Article struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Excerpt     string `yaml:"excerpt" json:"excerpt"`
	Author      string `yaml:"author" json:"author"`
	Category    string `yaml:"category" json:"category"`
	ReadTime    string `yaml:"read_time" json:"read_time"`
	PublishDate string `yaml:"publish_date" json:"publish_date"`
	Featured    bool   `yaml:"featured" json:"featured"`
	Image       string `yaml:"image" json:"image"`
}

type soilFile struct {
	SoilTypeColors  map[string]string `yaml:"soil_type_colors"`
	FertilityColors map[string]string `yaml:"fertility_colors"`
	Regions         []SoilProfile     `yaml:"regions"`
}

type weatherFile struct {
	Locations map[string]WeatherReport `yaml:"locations"`
}

type communityFile struct {
	Categories []Category `yaml:"categories"`
	Groups     []Group    `yaml:"groups"`
}

type articlesFile struct {
	Categories []Category `yaml:"categories"`
	Articles   []Article  `yaml:"articles"`
}

// Catalog is read-only after Load and safe for concurrent use.
type Catalog struct {
	regions           []SoilProfile
	byRegion          map[string]SoilProfile
	weather           map[string]WeatherReport
	groupCategories   []Category
	groups            []Group
	articleCategories []Category
	articles          []Article
}

func Load() (*Catalog, error) {
	var soil soilFile
	var weather weatherFile
	var community communityFile
	var articles articlesFile

	for name, dst := range map[string]interface{}{
		"data/soil.yaml":      &soil,
		"data/weather.yaml":   &weather,
		"data/community.yaml": &community,
		"data/articles.yaml":  &articles,
	} {
		raw, err := assets.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	c := &Catalog{
		byRegion:          make(map[string]SoilProfile, len(soil.Regions)),
		weather:           make(map[string]WeatherReport, len(weather.Locations)),
		groupCategories:   community.Categories,
		groups:            community.Groups,
		articleCategories: articles.Categories,
		articles:          articles.Articles,
	}
	for _, r := range soil.Regions {
		r.SoilTypeColor = colorOr(soil.SoilTypeColors, r.SoilType, defaultSoilColor)
		r.FertilityColor = colorOr(soil.FertilityColors, r.Fertility, defaultFertilityColor)
		c.regions = append(c.regions, r)
		c.byRegion[r.Region] = r
	}
	for name, report := range weather.Locations {
		report.Location = name
		c.weather[name] = report
	}
	return c, nil
}

func colorOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

// Regions returns every soil profile in file order.
func (c *Catalog) Regions() []SoilProfile {
	return append([]SoilProfile(nil), c.regions...)
}

// Soil looks up a region by its exact name.
func (c *Catalog) Soil(region string) (*SoilProfile, error) {
	p, ok := c.byRegion[strings.TrimSpace(region)]
	if !ok {
		return nil, apperror.NotFound(fmt.Sprintf("no soil data for region %q", region))
	}
	return &p, nil
}

// RegionsForCrop returns regions recommending crop. "all" or empty returns every region.
func (c *Catalog) RegionsForCrop(crop string) []SoilProfile {
	crop = strings.TrimSpace(crop)
	if crop == "" || crop == CategoryAll {
		return c.Regions()
	}
	var out []SoilProfile
	for _, r := range c.regions {
		for _, rc := range r.RecommendedCrops {
			if rc == crop {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Crops returns the sorted set of crops recommended anywhere.
func (c *Catalog) Crops() []string {
	seen := make(map[string]struct{})
	for _, r := range c.regions {
		for _, crop := range r.RecommendedCrops {
			seen[crop] = struct{}{}
		}
	}
	crops := make([]string, 0, len(seen))
	for crop := range seen {
		crops = append(crops, crop)
	}
	sort.Strings(crops)
	return crops
}

func (c *Catalog) Weather(location string) (*WeatherReport, error) {
	report, ok := c.weather[strings.TrimSpace(location)]
	if !ok {
		return nil, apperror.NotFound("Location not found. Try Lagos, Kano, or Rivers.")
	}
	return &report, nil
}

// WeatherLocations lists the locations with detailed reports.
func (c *Catalog) WeatherLocations() []string {
	names := make([]string, 0, len(c.weather))
	for name := range c.weather {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) GroupCategories() []Category { return c.groupCategories }

// Groups filters by a case-insensitive match on name or description and by category.
func (c *Catalog) Groups(query, category string) []Group {
	var out []Group
	for _, g := range c.groups {
		if matchesText(query, g.Name, g.Description) && matchesCategory(category, g.Category) {
			out = append(out, g)
		}
	}
	return out
}

func (c *Catalog) ArticleCategories() []Category { return c.articleCategories }

// Articles filters by a case-insensitive match on title or excerpt and by category.
func (c *Catalog) Articles(query, category string) []Article {
	var out []Article
	for _, a := range c.articles {
		if matchesText(query, a.Title, a.Excerpt) && matchesCategory(category, a.Category) {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) FeaturedArticles() []Article {
	var out []Article
	for _, a := range c.articles {
		if a.Featured {
			out = append(out, a)
		}
	}
	return out
}

func matchesText(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func matchesCategory(selected, category string) bool {
	return selected == "" || selected == CategoryAll || selected == category
}
