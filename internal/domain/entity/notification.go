package entity

import (
	"encoding/json"
	"time"
)

// Tipos de notificación emitidos por los trabajos programados.
const (
	NotificationSubscriptionExpiry = "subscription_expiry"
	NotificationDailyBrief         = "daily_brief"
)

// Notification registro del outbox de notificaciones. DedupeKey es único:
// un mismo aviso no se envía dos veces aunque el cron se dispare de nuevo.
type Notification struct {
	ID        string
	Kind      string
	StoreID   string // vacío para avisos de cuenta
	UserID    string
	Recipient string // email del destinatario
	DedupeKey string
	Subject   string
	Payload   json.RawMessage
	SentAt    time.Time
}
