package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PromoBarKey = "promoBar"

// Settings es un documento de configuración global identificado por Key
type Settings struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Key       string             `json:"key" bson:"key"`
	Value     string             `json:"value" bson:"value"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	Messages  []PromoBarMessage  `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type PromoBarMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Text      string             `json:"text" bson:"text"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PromoBar es la respuesta de la barra promocional con el texto vigente
type PromoBar struct {
	*Settings
	CurrentValue string `json:"currentValue"`
}

// PromoBarUpdate es el cuerpo de PUT /api/settings/promo-bar.
// Messages nil significa que la lista no se reemplaza.
type PromoBarUpdate struct {
	Messages []*PromoBarMessageInput `json:"messages"`
	Value    *string                 `json:"value"`
	IsActive *bool                   `json:"isActive"`
}

// PromoBarMessageInput admite valores sin tipar; se sanean en el servicio.
type PromoBarMessageInput struct {
	Text     any `json:"text"`
	IsActive any `json:"isActive"`
}
