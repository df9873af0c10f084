package catalog

import (
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// Builtin returns the storefront's default product set. Each call returns a
// fresh slice.
func Builtin() []models.Product {
	return []models.Product{
		{
			ID:               1,
			Name:             "Minimal Desk Lamp",
			Price:            decimal.RequireFromString("89.99"),
			ShortDescription: "Perfect illumination for your workspace",
			Description:      "This elegant desk lamp combines minimal design with maximum functionality. The adjustable arm and dimmable LED light give you perfect control over your workspace lighting. Made from high-quality aluminum with a matte finish.",
			Image:            "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?auto=format&fit=crop&w=1000&q=80",
			Category:         "Home Office",
			Rating:           4.8,
			Featured:         true,
		},
		{
			ID:               2,
			Name:             "Leather Notebook",
			Price:            decimal.RequireFromString("29.99"),
			ShortDescription: "Timeless elegance for your thoughts",
			Description:      "Capture your ideas in this premium leather notebook featuring 240 pages of acid-free paper. The minimalist design is complemented by the tactile experience of writing on high-quality paper, while the leather cover develops a beautiful patina over time.",
			Image:            "https://images.unsplash.com/photo-1531346878377-a5be20888e57?auto=format&fit=crop&w=1000&q=80",
			Category:         "Stationery",
			Rating:           4.5,
		},
		{
			ID:               3,
			Name:             "Minimalist Watch",
			Price:            decimal.RequireFromString("149.99"),
			ShortDescription: "Understated luxury for your wrist",
			Description:      "This minimalist timepiece features a clean dial with subtle hour markers and a premium leather strap. The Swiss movement ensures precise timekeeping, while the sapphire crystal protects against scratches. Water-resistant to 50 meters.",
			Image:            "https://images.unsplash.com/photo-1523170335258-f5ed11844a49?auto=format&fit=crop&w=1000&q=80",
			Category:         "Accessories",
			Rating:           4.9,
			Featured:         true,
		},
		{
			ID:               4,
			Name:             "Ceramic Coffee Set",
			Price:            decimal.RequireFromString("69.99"),
			ShortDescription: "Elevate your morning ritual",
			Description:      "This handcrafted ceramic coffee set includes two mugs and a matching pour-over coffee maker. Each piece is individually made and features a unique glaze pattern. The ergonomic design makes brewing and enjoying your coffee a sensory pleasure.",
			Image:            "https://images.unsplash.com/photo-1579273166652-d725a4e2c585?auto=format&fit=crop&w=1000&q=80",
			Category:         "Kitchen",
			Rating:           4.6,
		},
		{
			ID:               5,
			Name:             "Wool Throw Blanket",
			Price:            decimal.RequireFromString("119.99"),
			ShortDescription: "Luxurious comfort for cool evenings",
			Description:      "Wrap yourself in the luxurious warmth of this 100% Merino wool throw blanket. The subtle herringbone pattern adds textural interest, while the lightweight nature of the wool makes it perfect for year-round use. Available in three natural colorways.",
			Image:            "https://images.unsplash.com/photo-1580999248150-e8e3c191de86?auto=format&fit=crop&w=1000&q=80",
			Category:         "Home Decor",
			Rating:           4.7,
			Featured:         true,
		},
		{
			ID:               6,
			Name:             "Marble Bookends",
			Price:            decimal.RequireFromString("79.99"),
			ShortDescription: "Sculptural elegance for your bookshelf",
			Description:      "These solid marble bookends combine functionality with sculptural beauty. Each set is cut from a single block of marble, ensuring the veining pattern flows seamlessly between the two pieces. The substantial weight keeps your books perfectly aligned.",
			Image:            "https://images.unsplash.com/photo-1589136777351-efb4fba16e17?auto=format&fit=crop&w=1000&q=80",
			Category:         "Home Decor",
			Rating:           4.4,
		},
		{
			ID:               7,
			Name:             "Linen Pajama Set",
			Price:            decimal.RequireFromString("99.99"),
			ShortDescription: "Breathable luxury for restful nights",
			Description:      "Experience the ultimate sleep comfort with this 100% linen pajama set. The breathable fabric regulates temperature while the relaxed fit ensures unrestricted movement. Pre-washed for immediate softness, this set becomes even more comfortable with each wash.",
			Image:            "https://images.unsplash.com/photo-1566095212436-41a1d96f2442?auto=format&fit=crop&w=1000&q=80",
			Category:         "Apparel",
			Rating:           4.8,
		},
		{
			ID:               8,
			Name:             "Wireless Earbuds",
			Price:            decimal.RequireFromString("129.99"),
			ShortDescription: "Immersive sound in a minimal package",
			Description:      "These premium wireless earbuds deliver exceptional sound quality in a compact, ergonomic design. The active noise cancellation creates an immersive listening experience, while the long battery life ensures your music plays all day. The charging case adds 20 additional hours of playback.",
			Image:            "https://images.unsplash.com/photo-1590658268037-372a82cebf3e?auto=format&fit=crop&w=1000&q=80",
			Category:         "Electronics",
			Rating:           4.6,
			Featured:         true,
		},
	}
}
