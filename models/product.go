package models

// Product is a catalog record. This subsystem only reads products; stock and
// price are owned by the catalog.
type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Stock       int     `json:"stock" bson:"stock"`
	ImageURL    string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
}
