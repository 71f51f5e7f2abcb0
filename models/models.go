package models

import "time"

// Language is the UI language tag carried on sessions and chat messages.
type Language string

const (
	LangHindi   Language = "hi"
	LangEnglish Language = "en"
)

// Toggle flips between the two supported languages.
func (l Language) Toggle() Language {
	if l == LangHindi {
		return LangEnglish
	}
	return LangHindi
}

type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleConsumer Role = "consumer"
)

// User is a seeded marketplace account. Looked up by (email, role) at login;
// at most one user per (email, role) pair exists in the seed data.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type ProductSpecs struct {
	Organic     bool   `json:"organic"`
	Variety     string `json:"variety"`
	HarvestDate string `json:"harvestDate"`
}

// Product is a farmer listing. AISuggestedPrice is advisory only and never
// replaces Price.
type Product struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	NameHindi        string       `json:"nameHindi"`
	Price            float64      `json:"price"`
	Quantity         int          `json:"quantity"`
	Unit             string       `json:"unit"`
	Category         string       `json:"category"`
	FarmerID         string       `json:"farmerId"`
	Image            string       `json:"image"`
	Specifications   ProductSpecs `json:"specifications"`
	AISuggestedPrice float64      `json:"aiSuggestedPrice"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// CartItem snapshots the unit price at add-time. A cart never holds two
// entries for the same product.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further status transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order freezes its items and total at placement time.
type Order struct {
	ID           string      `json:"id"`
	ConsumerID   string      `json:"consumerId"`
	Items        []CartItem  `json:"items"`
	TotalAmount  float64     `json:"totalAmount"`
	Status       OrderStatus `json:"status"`
	OrderDate    time.Time   `json:"orderDate"`
	DeliveryDate *time.Time  `json:"deliveryDate,omitempty"`
}

// Reward types granted for qualifying farmer actions.
const (
	RewardSaleBonus     = "sale_bonus"
	RewardProductAdded  = "product_added"
	RewardQualityBonus  = "quality_bonus"
	RewardLoyaltyReward = "loyalty_reward"
)

// Reward is append-only; a farmer's total points is the sum over all rewards.
type Reward struct {
	ID          string    `json:"id"`
	FarmerID    string    `json:"farmerId"`
	Points      int       `json:"points"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earnedAt"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage lives only inside one open chat session; transcripts are not
// persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Language  Language  `json:"language"`
}
