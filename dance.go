package scddb

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Defaults applied when a dance page does not state a value.
const (
	UnknownName          = "Unknown dance"
	DefaultBarsCount     = 32
	DefaultRepetitions   = 4
	DefaultCouplesCount  = 4
	DefaultFormation     = LongwiseSet
	DefaultImageFilename = "diagram.png"
)

// Set formations.
const (
	LongwiseSet   = "Longwise set"
	SquareSet     = "Square set"
	TriangularSet = "Triangular set"
	CircularSet   = "Circular set"
)

// DanceTypes is the closed vocabulary of dance types, in the order they are
// tried when scanning free text.
var DanceTypes = []string{
	"Reel",
	"Jig",
	"Strathspey",
	"March",
	"Medley",
	"Polka",
	"Waltz",
	"Hornpipe",
	"Quadrille",
	"Minuet",
}

// ImageType classifies an image attached to a dance.
type ImageType string

// ImageType constants.
const (
	ImageDiagram   ImageType = "diagram"
	ImageMusic     ImageType = "music"
	ImageAuthor    ImageType = "author"
	ImageFormation ImageType = "formation"
)

// Figure is one labelled step of a dance, e.g. "1-8" and what happens in it.
type Figure struct {
	BarsLabel string `json:"barsLabel"`
	Text      string `json:"text"`
}

// Image describes an image found on a dance page.
// Location is empty until the image has been stored.
type Image struct {
	URL      string    `json:"url"`
	AltText  string    `json:"altText"`
	Filename string    `json:"filename"`
	Type     ImageType `json:"type"`
	Location string    `json:"location,omitempty"`
}

// Dance is a normalized dance record. Optional text fields are empty and
// optional numbers are zero when the page did not provide them.
type Dance struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	DanceType        string    `json:"danceType,omitempty"`
	Meter            string    `json:"meter,omitempty"`
	BarsCode         string    `json:"barsCode,omitempty"`
	BarsCount        int       `json:"barsCount"`
	Repetitions      int       `json:"repetitions"`
	Formation        string    `json:"formation"`
	CouplesCount     int       `json:"couplesCount"`
	SetFormat        int       `json:"setFormat"`
	Progression      string    `json:"progression,omitempty"`
	Author           string    `json:"author,omitempty"`
	Year             int       `json:"year,omitempty"`
	Description      string    `json:"description,omitempty"`
	Crib             string    `json:"crib,omitempty"`
	Steps            []string  `json:"steps,omitempty"`
	PublishedIn      []string  `json:"publishedIn,omitempty"`
	RecommendedMusic []string  `json:"recommendedMusic,omitempty"`
	FormationsList   []string  `json:"formationsList,omitempty"`
	Figures          []Figure  `json:"figures,omitempty"`
	ExtraInfo        string    `json:"extraInfo,omitempty"`
	Intensity        string    `json:"intensity,omitempty"`
	Images           []Image   `json:"images,omitempty"`
	SourceURL        string    `json:"sourceUrl,omitempty"`
	ContentHash      string    `json:"contentHash,omitempty"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
}

// Validate returns an error if the dance contains invalid fields.
func (d *Dance) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "dance name required")
	}
	if d.BarsCount <= 0 {
		return Errorf(EINVALID, "dance bars count must be positive")
	}
	if d.Repetitions <= 0 {
		return Errorf(EINVALID, "dance repetitions must be positive")
	}
	if d.CouplesCount <= 0 {
		return Errorf(EINVALID, "dance couples count must be positive")
	}
	for i, img := range d.Images {
		if img.URL == "" {
			return Errorf(EINVALID, "dance image %d URL required", i)
		}
		if img.Type == "" {
			return Errorf(EINVALID, "dance image %d type required", i)
		}
	}
	return nil
}

// Problems lists the gaps that make a parsed dance worth a second look.
// An empty result means the record looks complete.
func (d *Dance) Problems() []string {
	var problems []string
	if d.Name == "" || d.Name == UnknownName {
		problems = append(problems, "dance name not found")
	}
	if d.Author == "" {
		problems = append(problems, "author not found")
	}
	if d.Description == "" {
		problems = append(problems, "description not found")
	}
	return problems
}

// Size returns the dance size as "repetitions×bars", e.g. "8×32".
func (d *Dance) Size() string {
	reps, bars := d.Repetitions, d.BarsCount
	if reps <= 0 {
		reps = DefaultRepetitions
	}
	if bars <= 0 {
		bars = DefaultBarsCount
	}
	return fmt.Sprintf("%d×%d", reps, bars)
}

// Clone returns a deep copy of the dance.
func (d *Dance) Clone() *Dance {
	other := *d
	other.Steps = cloneStrings(d.Steps)
	other.PublishedIn = cloneStrings(d.PublishedIn)
	other.RecommendedMusic = cloneStrings(d.RecommendedMusic)
	other.FormationsList = cloneStrings(d.FormationsList)
	if d.Figures != nil {
		other.Figures = append([]Figure(nil), d.Figures...)
	}
	if d.Images != nil {
		other.Images = append([]Image(nil), d.Images...)
	}
	return &other
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// DanceURLPattern matches the path of a dance page on the source site.
var DanceURLPattern = regexp.MustCompile(`/dance/(\d+)/`)

// DanceIDFromURL returns the numeric dance ID embedded in a dance page URL,
// or "" when the URL is not a dance page.
func DanceIDFromURL(url string) string {
	m := DanceURLPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// SetFormatName returns the reference name of a set with n couples.
func SetFormatName(n int) string {
	return fmt.Sprintf("%d Couple set", n)
}

// DanceService represents a service for managing dances.
type DanceService interface {
	// CreateDance stores a new dance together with its figures and images.
	// Returns ECONFLICT if a dance with the same source URL exists.
	CreateDance(ctx context.Context, dance *Dance) error

	// FindDanceByID retrieves a dance by ID.
	// Returns ENOTFOUND if dance does not exist.
	FindDanceByID(ctx context.Context, id string) (*Dance, error)

	// FindDances retrieves dances matching the filter, ordered by name.
	FindDances(ctx context.Context, filter DanceFilter) ([]*Dance, error)

	// UpdateDance replaces a stored dance, its figures and images.
	// Returns ENOTFOUND if dance does not exist.
	UpdateDance(ctx context.Context, id string, dance *Dance) error

	// DeleteDance permanently removes a dance and its figures and images.
	// Returns ENOTFOUND if dance does not exist.
	DeleteDance(ctx context.Context, id string) error
}

// DanceFilter represents a filter for FindDances.
//
// Name, Author and Published are search phrases: each word matches as a
// case-insensitive substring and the words of one phrase are OR'ed.
// All set fields are AND'ed.
type DanceFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`

	Name      string `json:"name"`
	Author    string `json:"author"`
	Published string `json:"published"`

	DanceType      *string `json:"danceType"`
	Formation      *string `json:"formation"`
	MinRepetitions *int    `json:"minRepetitions"`
	MaxRepetitions *int    `json:"maxRepetitions"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
