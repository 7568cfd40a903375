// Package property manages property profiles and their compartments: the land
// records a felling licence application is raised against.
package property

import (
	"time"

	id "fellgate/pkg/domain"
)

// Compartment is one managed parcel within a property profile. GISData carries
// the boundary geometry as GeoJSON; the constraint checker consumes it opaquely.
type Compartment struct {
	ID                id.CompartmentID
	PropertyProfileID id.PropertyProfileID
	Number            string
	SubCompartment    string
	TotalHectares     float64
	Designation       string
	GISData           string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PropertyProfile is a woodland owner's named property and its compartments.
// Profile names are unique per woodland owner.
type PropertyProfile struct {
	ID              id.PropertyProfileID
	WoodlandOwnerID id.WoodlandOwnerID
	Name            string
	NearestTown     string
	Compartments    []Compartment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Compartment returns the compartment with the given id, if present.
func (p PropertyProfile) Compartment(compartmentID id.CompartmentID) (Compartment, bool) {
	for _, compartment := range p.Compartments {
		if compartment.ID == compartmentID {
			return compartment, true
		}
	}
	return Compartment{}, false
}
