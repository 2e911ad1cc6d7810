package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is one hosted image attached to a campground. Only the URL and
// filename are stored; the resized variant is derived from the URL.
type Image struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename" json:"filename"`
}

// Thumbnail returns the URL of a 200px-wide variant of the image.
func (img Image) Thumbnail() string {
	return strings.Replace(img.URL, "/upload", "/upload/w_200", 1)
}

// Geometry is a GeoJSON point, coordinates ordered [longitude, latitude].
type Geometry struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewPoint builds a point geometry from a longitude/latitude pair.
func NewPoint(lng, lat float64) Geometry {
	return Geometry{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Campground represents a campground listing
type Campground struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string               `bson:"title" json:"title"`
	Price       float64              `bson:"price" json:"price"`
	Description string               `bson:"description" json:"description"`
	Location    string               `bson:"location" json:"location"`
	Images      []Image              `bson:"images" json:"images"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
	Author      primitive.ObjectID   `bson:"author" json:"author"`
	Geometry    Geometry             `bson:"geometry" json:"geometry"`
}

// PopupMarkup renders the map popup snippet for the campground.
func (c *Campground) PopupMarkup() string {
	desc := c.Description
	if len(desc) > 20 {
		desc = desc[:20]
	}
	return fmt.Sprintf(`<strong><a href="/campgrounds/%s">%s</a></strong><p>%s...</p>`,
		c.ID.Hex(), c.Title, desc)
}

// CampgroundUpdate carries the mutable fields of a campground. The author,
// identifier and review list are never part of an update.
type CampgroundUpdate struct {
	Title        string
	Price        float64
	Description  string
	Location     string
	Geometry     Geometry
	AddImages    []Image
	DeleteImages []string // filenames
}

// CampgroundDetail is a campground with its references resolved: the owning
// author and each review with that review's own author.
type CampgroundDetail struct {
	Campground
	Author  *User
	Reviews []ReviewDetail
}
