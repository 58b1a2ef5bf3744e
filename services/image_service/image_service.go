package image_service

import (
	"context"

	"github.com/serisow/glowpress/pipeline_type"
)

type ImageService interface {
	// Search returns up to count images for the query. An empty result is not
	// an error; callers fall back to FallbackImages.
	Search(ctx context.Context, query string, count int) ([]pipeline_type.Image, error)
}

// FallbackImages returns the hardcoded triple used whenever no image source is
// reachable, so the assembler always has something to embed.
func FallbackImages(topic string) []pipeline_type.Image {
	return []pipeline_type.Image{
		{
			URL:          "https://images.pexels.com/photos/3373716/pexels-photo-3373716.jpeg",
			Alt:          topic + " essentials on a bathroom shelf",
			Photographer: "Shiny Diamond",
		},
		{
			URL:          "https://images.pexels.com/photos/3762879/pexels-photo-3762879.jpeg",
			Alt:          "Applying " + topic + " product",
			Photographer: "Sora Shimazaki",
		},
		{
			URL:          "https://images.pexels.com/photos/4465124/pexels-photo-4465124.jpeg",
			Alt:          topic + " flat lay with natural light",
			Photographer: "Karolina Grabowska",
		},
	}
}
