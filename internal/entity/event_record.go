package entity

// EventSchema is the published field layout of the attestation payload.
const EventSchema = "string eventName,string eventDescription,string occasion,string[] locationCoordinates,string memoryDescription"

// Coordinates keeps latitude and longitude exactly as the caller sent them.
type Coordinates [2]string

func (c Coordinates) Lat() string { return c[0] }
func (c Coordinates) Lon() string { return c[1] }

// EventRecord is the canonical attestation payload. After parsing every field is set.
type EventRecord struct {
	EventName           string      `json:"event_name"`
	EventDescription    string      `json:"event_description"`
	Occasion            string      `json:"occasion"`
	LocationCoordinates Coordinates `json:"location_coordinates"`
	MemoryDescription   string      `json:"memory_description"`
}
