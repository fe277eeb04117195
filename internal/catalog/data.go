package catalog

import "micasa-storefront/internal/models"

var tourEvents = []models.Event{
	{
		ID:          "la",
		Title:       "The Cosmic Arena - Los Angeles",
		Date:        "Dec 15, 2025",
		Time:        "8:00 PM",
		Description: "Get ready for an unforgettable night as Mi Casa takes over The Cosmic Arena. Experience the hits from 'We Made It' and 'Familia' live in one of LA's most iconic venues. This will be a night of pure energy, soulful music, and non-stop dancing.",
		Images: []string{
			"images/venue1pic.jpg",
			"images/venue1pic2.png",
			"images/venue1pic3.jpg",
			"images/venue1pic4.jpg",
		},
	},
	{
		ID:          "ny",
		Title:       "Galaxy Theater - New York",
		Date:        "Dec 22, 2025",
		Time:        "7:30 PM",
		Description: "Mi Casa brings their electrifying performance to the heart of New York City. The Galaxy Theater will come alive with the sounds of Afro-House. Don't miss this East Coast spectacle!",
		Images: []string{
			"images/venue2pic1.webp",
			"images/venue2pic2.png",
			"images/venue2pic3.webp",
			"images/venue2pic4.webp",
		},
	},
	{
		ID:          "ct",
		Title:       "Stellar Dome - Cape Town",
		Date:        "Jan 12, 2026",
		Time:        "8:00 PM",
		Description: "A homecoming show! Join Mi Casa under the stars at the magnificent Stellar Dome in Cape Town for a magical night of music, rhythm, and celebration.",
		Images: []string{
			"images/venue3pic1.webp",
			"images/venue3pic2.webp",
			"images/venue3pic3.webp",
			"images/venue3pic4.webp",
		},
	},
}

var merchandise = []models.Product{
	{ID: "tour-tee", Name: "Familia Tour Tee", Price: 35000, Image: "images/merch-tee.jpg", Sizes: []string{"S", "M", "L", "XL"}},
	{ID: "hoodie", Name: "We Made It Hoodie", Price: 75000, Image: "images/merch-hoodie.jpg", Sizes: []string{"S", "M", "L", "XL"}},
	{ID: "cap", Name: "Mi Casa Snapback", Price: 25000, Image: "images/merch-cap.jpg"},
	{ID: "vinyl", Name: "Familia (Vinyl)", Price: 45000, Image: "images/merch-vinyl.jpg"},
	{ID: "poster", Name: "Signed Tour Poster", Price: 15000, Image: "images/merch-poster.jpg"},
}
