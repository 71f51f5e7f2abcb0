package seed

import (
	"time"

	"mandi/models"
)

// Data is the static dataset every store starts from. There is no database
// behind it; collections seeded here live in memory for the process lifetime.
type Data struct {
	Users    []models.User
	Products []models.Product
	Orders   []models.Order
	Rewards  []models.Reward
	Settings Settings
}

type Settings struct {
	DefaultLanguage    models.Language
	SupportedLanguages []models.Language
	Currency           string
}

func ts(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func tsPtr(value string) *time.Time {
	t := ts(value)
	return &t
}

// Default returns a fresh copy of the seed dataset.
func Default() Data {
	return Data{
		Users: []models.User{
			{
				ID:       "farmer1",
				Name:     "राम कुमार",
				Email:    "ram@farmer.com",
				Role:     models.RoleFarmer,
				Phone:    "+91 9876543210",
				Location: "Punjab, India",
			},
			{
				ID:       "consumer1",
				Name:     "प्रिया शर्मा",
				Email:    "priya@consumer.com",
				Role:     models.RoleConsumer,
				Phone:    "+91 9876543211",
				Location: "Delhi, India",
			},
		},
		Products: []models.Product{
			{
				ID:        "prod1",
				Name:      "Organic Basmati Rice",
				NameHindi: "जैविक बासमती चावल",
				Price:     120,
				Quantity:  500,
				Unit:      "kg",
				Category:  "Grains",
				FarmerID:  "farmer1",
				Image:     "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=400",
				Specifications: models.ProductSpecs{
					Organic:     true,
					Variety:     "Basmati 1121",
					HarvestDate: "2024-01-15",
				},
				AISuggestedPrice: 125,
				CreatedAt:        ts("2024-01-20T10:00:00Z"),
			},
			{
				ID:        "prod2",
				Name:      "Fresh Tomatoes",
				NameHindi: "ताज़े टमाटर",
				Price:     40,
				Quantity:  200,
				Unit:      "kg",
				Category:  "Vegetables",
				FarmerID:  "farmer1",
				Image:     "https://images.unsplash.com/photo-1592924357228-91a4daadcfea?w=400",
				Specifications: models.ProductSpecs{
					Organic:     false,
					Variety:     "Hybrid",
					HarvestDate: "2024-01-18",
				},
				AISuggestedPrice: 45,
				CreatedAt:        ts("2024-01-20T11:00:00Z"),
			},
			{
				ID:        "prod3",
				Name:      "Organic Wheat",
				NameHindi: "जैविक गेहूं",
				Price:     35,
				Quantity:  1000,
				Unit:      "kg",
				Category:  "Grains",
				FarmerID:  "farmer1",
				Image:     "https://images.unsplash.com/photo-1574323347407-f5e1ad6d020b?w=400",
				Specifications: models.ProductSpecs{
					Organic:     true,
					Variety:     "Sharbati",
					HarvestDate: "2024-01-10",
				},
				AISuggestedPrice: 38,
				CreatedAt:        ts("2024-01-20T12:00:00Z"),
			},
		},
		Orders: []models.Order{
			{
				ID:         "order1",
				ConsumerID: "consumer1",
				Items: []models.CartItem{
					{ProductID: "prod1", Quantity: 10, Price: 120},
				},
				TotalAmount:  1200,
				Status:       models.OrderDelivered,
				OrderDate:    ts("2024-01-15T10:00:00Z"),
				DeliveryDate: tsPtr("2024-01-18T15:00:00Z"),
			},
		},
		Rewards: []models.Reward{
			{
				ID:          "reward1",
				FarmerID:    "farmer1",
				Points:      150,
				Type:        models.RewardSaleBonus,
				Description: "Bonus for selling organic products",
				EarnedAt:    ts("2024-01-20T10:00:00Z"),
			},
		},
		Settings: Settings{
			DefaultLanguage:    models.LangHindi,
			SupportedLanguages: []models.Language{models.LangHindi, models.LangEnglish},
			Currency:           "INR",
		},
	}
}
