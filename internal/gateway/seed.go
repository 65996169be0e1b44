package gateway

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/flicky/go-storefront/internal/model"
)

// Seed is the dataset a MockStore starts from. Tests build small seeds by
// hand; DefaultSeed is the full development catalog.
type Seed struct {
	Products      []model.Product
	Users         []SeedUser
	Orders        []model.Order
	Wishlist      []model.WishlistItem
	Notifications []model.Notification
	Payments      []model.Payment
}

type SeedUser struct {
	User     model.User
	Password string
}

func product(id int64, name string, price int64, category, image, description string) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Category:    category,
		Image:       image,
		Description: description,
	}
}

// DefaultSeed returns the development catalog: ten watches, ten perfumes,
// one registered user (password "password"), and a little order history.
func DefaultSeed() *Seed {
	seedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orderTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	return &Seed{
		Products: []model.Product{
			product(1, "Rolex Submariner", 8500, "watches",
				"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
				"The iconic Rolex Submariner, a legendary diving watch that combines functionality with timeless elegance. Water-resistant to 300 meters with a robust Oystersteel case and automatic movement."),
			product(2, "Casio Vintage", 45, "watches",
				"https://images.unsplash.com/photo-1612817288484-6f916006741a?w=400&h=400&fit=crop",
				"Classic Casio digital watch with retro styling. Features include alarm, stopwatch, and backlight. Perfect for everyday wear with a comfortable resin band."),
			product(3, "Fossil Grant", 95, "watches",
				"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
				"Fossil Grant chronograph watch with genuine leather strap. Features a 45mm case with mineral crystal and Japanese quartz movement for reliable timekeeping."),
			product(4, "Omega Seamaster", 4200, "watches",
				"https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=400&h=400&fit=crop",
				"The Omega Seamaster, a professional diving watch with helium escape valve. Features a ceramic bezel, sapphire crystal, and Co-Axial escapement for precision."),
			product(5, "Seiko Presage", 350, "watches",
				"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
				"Seiko Presage automatic watch with a sophisticated design. Features a 40.5mm stainless steel case, sapphire crystal, and 4R35 automatic movement."),
			product(6, "Citizen Eco-Drive", 180, "watches",
				"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
				"Citizen Eco-Drive solar-powered watch that never needs a battery. Features a 42mm case, water resistance to 100m, and perpetual calendar."),
			product(7, "Tissot PRX", 375, "watches",
				"https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=400&h=400&fit=crop",
				"Tissot PRX Powermatic 80 with integrated bracelet design. Features a 40mm case, 80-hour power reserve, and Swiss automatic movement."),
			product(8, "Tag Heuer Carrera", 1800, "watches",
				"https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=400&h=400&fit=crop",
				"Tag Heuer Carrera chronograph with racing heritage. Features a 41mm case, sapphire crystal, and Swiss automatic movement with 42-hour power reserve."),
			product(9, "Daniel Wellington Classic", 199, "watches",
				"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
				"Daniel Wellington Classic watch with minimalist design. Features a 36mm case, genuine leather strap, and Japanese quartz movement."),
			product(10, "Hublot Big Bang", 15000, "watches",
				"https://images.unsplash.com/photo-1606220945770-b5b6c2c55bf1?w=400&h=400&fit=crop",
				"Hublot Big Bang chronograph with bold design and exceptional craftsmanship. Features a 44mm case, ceramic bezel, and Swiss automatic movement."),
			product(11, "Dior Sauvage", 95, "perfumes",
				"https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
				"Dior Sauvage is a fresh and woody fragrance that captures the spirit of adventure. Notes include bergamot, pepper, and ambroxan for a modern masculine scent."),
			product(12, "Bleu de Chanel", 120, "perfumes",
				"https://images.unsplash.com/photo-1592945403244-b3fbafd7f539?w=400&h=400&fit=crop",
				"Bleu de Chanel is a woody aromatic fragrance that embodies freedom and confidence. Features notes of citrus, mint, and cedar for a sophisticated scent."),
			product(13, "Armani Code", 85, "perfumes",
				"https://images.unsplash.com/photo-1592945403244-b3fbafd7f539?w=400&h=400&fit=crop",
				"Armani Code is a sensual and elegant fragrance for men. Features notes of bergamot, lemon, and tonka bean for a warm and sophisticated scent."),
			product(14, "Paco Rabanne 1 Million", 75, "perfumes",
				"https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
				"Paco Rabanne 1 Million is a bold and luxurious fragrance. Features notes of blood orange, rose, and white wood for an intense and memorable scent."),
			product(15, "Versace Eros", 70, "perfumes",
				"https://images.unsplash.com/photo-1592945403244-b3fbafd7f539?w=400&h=400&fit=crop",
				"Versace Eros is a passionate and seductive fragrance. Features notes of mint, green apple, and vanilla for a fresh yet warm scent."),
			product(16, "Tom Ford Noir", 150, "perfumes",
				"https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
				"Tom Ford Noir is a sophisticated and mysterious fragrance. Features notes of bergamot, rose, and patchouli for a complex and elegant scent."),
			product(17, "YSL La Nuit", 90, "perfumes",
				"https://images.unsplash.com/photo-1592945403244-b3fbafd7f539?w=400&h=400&fit=crop",
				"YSL La Nuit de L'Homme is a seductive and mysterious fragrance. Features notes of cardamom, lavender, and cedar for a sensual and sophisticated scent."),
			product(18, "Creed Aventus", 300, "perfumes",
				"https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
				"Creed Aventus is a fruity and woody fragrance inspired by the dramatic life of a historic emperor. Features notes of pineapple, blackcurrant, and oakmoss."),
			product(19, "Hugo Boss Bottled", 65, "perfumes",
				"https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
				"Hugo Boss Bottled is a fresh and modern fragrance. Features notes of apple, cinnamon, and sandalwood for a clean and sophisticated scent."),
			product(20, "Burberry London", 80, "perfumes",
				"https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
				"Burberry London is a classic and elegant fragrance. Features notes of bergamot, lavender, and tobacco for a refined and timeless scent."),
		},
		Users: []SeedUser{
			{
				User: model.User{
					ID:        1,
					Email:     "user@example.com",
					Name:      "John Doe",
					Avatar:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
					CreatedAt: seedTime,
				},
				Password: "password",
			},
		},
		Orders: []model.Order{
			{
				ID:     1,
				UserID: 1,
				Status: model.OrderStatusCompleted,
				Total:  decimal.NewFromInt(95),
				Items: []model.OrderItem{
					{ProductID: 3, Name: "Fossil Grant", Price: decimal.NewFromInt(95), Quantity: 1},
				},
				ShippingAddress: model.Address{
					Street: "123 Main St", City: "New York", State: "NY", Zip: "10001", Country: "USA",
				},
				CreatedAt: orderTime,
				UpdatedAt: orderTime,
			},
		},
		Wishlist: []model.WishlistItem{
			{ID: 1, ProductID: 1, UserID: 1, CreatedAt: seedTime},
			{ID: 2, ProductID: 4, UserID: 1, CreatedAt: seedTime.AddDate(0, 0, 1)},
		},
		Notifications: []model.Notification{
			{
				ID: 1, UserID: 1, Type: "welcome",
				Title:     "Welcome to the store!",
				Message:   "Thank you for joining our premium collection.",
				CreatedAt: seedTime,
			},
			{
				ID: 2, UserID: 1, Type: "order",
				Title:     "Order Shipped",
				Message:   "Your order #1 has been shipped and is on its way.",
				CreatedAt: orderTime.AddDate(0, 0, 1),
			},
		},
		Payments: []model.Payment{
			{
				ID:        "seed-payment-1",
				Status:    "succeeded",
				Amount:    decimal.NewFromInt(95),
				Currency:  "USD",
				Method:    "card",
				CreatedAt: orderTime,
			},
		},
	}
}

// hashPassword uses the minimum bcrypt cost: seed credentials are
// development data, and stores are rebuilt per test.
func hashPassword(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return hash
}
