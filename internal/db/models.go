package db

import "time"

// User is provisioned lazily from a verified identity token; UID is the
// subject assigned by the external identity provider.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"size:128;uniqueIndex;not null" json:"-"`
	Username  string    `gorm:"size:150;not null" json:"username"`
	Email     string    `gorm:"size:254;not null;default:''" json:"email"`
	FirstName string    `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName  string    `gorm:"size:150;not null;default:''" json:"last_name"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type Party struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:200;not null" json:"name"`
	Description     string     `gorm:"not null;default:''" json:"description"`
	Date            time.Time  `gorm:"not null;index" json:"date"`
	EndTime         *time.Time `json:"end_time"`
	Location        string     `gorm:"size:300;not null" json:"location"`
	HostID          uint       `gorm:"index;not null" json:"host"`
	Host            *User      `json:"-"`
	FacebookLiveURL string     `gorm:"size:500;not null;default:''" json:"facebook_live_url"`
	VenmoUsername   string     `gorm:"size:100;not null;default:''" json:"venmo_username"`
	Latitude        *float64   `gorm:"type:numeric(9,6)" json:"latitude"`
	Longitude       *float64   `gorm:"type:numeric(9,6)" json:"longitude"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	IsPublic        bool       `gorm:"not null;default:true" json:"is_public"`
	MaxGuests       *int       `json:"max_guests"`
	InviteCode      string     `gorm:"size:36;uniqueIndex;not null" json:"invite_code"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

type PartyTimelineEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PartyID         uint      `gorm:"index;not null" json:"party"`
	Time            string    `gorm:"size:8;not null" json:"time"`
	Activity        string    `gorm:"size:200;not null" json:"activity"`
	Description     string    `gorm:"not null;default:''" json:"description"`
	Icon            string    `gorm:"size:50;not null;default:''" json:"icon"`
	DurationMinutes *int      `json:"duration_minutes"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// WeatherData is the host-maintained forecast shown on the party page, one
// row per party. Temperature is degrees Fahrenheit.
type WeatherData struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PartyID     uint      `gorm:"uniqueIndex;not null" json:"party"`
	Temperature int       `gorm:"not null" json:"temperature"`
	Condition   string    `gorm:"size:100;not null" json:"condition"`
	Icon        string    `gorm:"size:10;not null;default:''" json:"icon"`
	Humidity    *int      `json:"humidity"`
	WindSpeed   *int      `json:"wind_speed"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

const (
	RSVPStatusYes   = "yes"
	RSVPStatusNo    = "no"
	RSVPStatusMaybe = "maybe"
)

type RSVP struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	PartyID             uint      `gorm:"index;not null;uniqueIndex:idx_rsvps_party_user" json:"party"`
	UserID              uint      `gorm:"index;not null;uniqueIndex:idx_rsvps_party_user" json:"user"`
	User                *User     `json:"-"`
	Status              string    `gorm:"size:10;not null" json:"status"`
	GuestCount          int       `gorm:"not null;default:1" json:"guest_count"`
	DietaryRestrictions string    `gorm:"not null;default:''" json:"dietary_restrictions"`
	PhoneNumber         string    `gorm:"size:20;not null;default:''" json:"phone_number"`
	Notes               string    `gorm:"not null;default:''" json:"notes"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

type PartyPhoto struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PartyID      uint      `gorm:"index;not null" json:"party"`
	ImageData    []byte    `gorm:"type:bytea;not null" json:"-"`
	ContentType  string    `gorm:"size:64;not null;default:'image/png'" json:"content_type"`
	Caption      string    `gorm:"not null;default:''" json:"caption"`
	UploadedByID *uint     `gorm:"index" json:"uploaded_by"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"-"`
	IsFeatured   bool      `gorm:"not null;default:false" json:"is_featured"`
	UploadedAt   time.Time `gorm:"not null;autoCreateTime" json:"uploaded_at"`
}

type PhotoLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PhotoID   uint      `gorm:"index;not null;uniqueIndex:idx_photo_likes_photo_user" json:"photo"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_photo_likes_photo_user" json:"user"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

const (
	GiftPriorityLow    = "low"
	GiftPriorityMedium = "medium"
	GiftPriorityHigh   = "high"
)

type GiftRegistryItem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PartyID       uint       `gorm:"index;not null" json:"party"`
	Name          string     `gorm:"size:200;not null" json:"name"`
	Description   string     `gorm:"not null;default:''" json:"description"`
	Price         float64    `gorm:"type:numeric(10,2);not null" json:"price"`
	URL           string     `gorm:"size:500;not null;default:''" json:"url"`
	Priority      string     `gorm:"size:10;not null;default:'medium'" json:"priority"`
	IsPurchased   bool       `gorm:"not null;default:false" json:"is_purchased"`
	PurchasedByID *uint      `gorm:"index" json:"purchased_by"`
	PurchasedBy   *User      `gorm:"foreignKey:PurchasedByID" json:"-"`
	PurchasedAt   *time.Time `json:"purchased_at"`
	PurchaseNote  string     `gorm:"size:200;not null;default:''" json:"purchase_note"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
}

type GuestBookEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PartyID    uint      `gorm:"index;not null" json:"party"`
	AuthorID   uint      `gorm:"index;not null" json:"author"`
	Author     *User     `json:"-"`
	Message    string    `gorm:"not null" json:"message"`
	IsFeatured bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

type VenmoPayment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	PartyID            uint      `gorm:"index;not null" json:"party"`
	UserID             uint      `gorm:"index;not null" json:"user"`
	User               *User     `json:"-"`
	Amount             float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	VenmoTransactionID string    `gorm:"size:100;not null;default:''" json:"venmo_transaction_id"`
	Status             string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Note               string    `gorm:"size:200;not null;default:''" json:"note"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}
