package pipeline_type

import "github.com/serisow/glowpress/llm_service"

// The full pipeline data for one content-generation run.
type Pipeline struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Steps       []PipelineStep `json:"steps"`
	LLMServices map[string]llm_service.LLMService
	Context     *Context
}

type PipelineStep struct {
	ID               string                 `json:"id"`
	Type             string                 `json:"type"`
	Weight           int                    `json:"weight"`
	StepDescription  string                 `json:"step_description"`
	StepOutputKey    string                 `json:"step_output_key"`
	RequiredSteps    string                 `json:"required_steps"`
	Prompt           string                 `json:"prompt,omitempty"`
	Response         string                 `json:"response,omitempty"`
	UUID             string                 `json:"uuid"`
	LLMServiceConfig map[string]interface{} `json:"llm_service,omitempty"`
	ActionConfig     string                 `json:"action_config,omitempty"`
	Optional         bool                   `json:"optional,omitempty"`
	ActionDetails    *ActionDetails         `json:"action_details,omitempty"`
	TopicConfig      *TopicConfig           `json:"topic_config,omitempty"`
	ImageConfig      *ImageConfig           `json:"image_config,omitempty"`
	AssembleConfig   *AssembleConfig        `json:"assemble_config,omitempty"`
}

type ActionDetails struct {
	Configuration map[string]interface{} `json:"configuration,omitempty"`
}

type TopicConfig struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
}

type ImageConfig struct {
	Service string `json:"service,omitempty"`
	Query   string `json:"query"`
	Count   int    `json:"count"`
}

type AssembleConfig struct {
	Category     string `json:"category"`
	AffiliateTag string `json:"affiliate_tag"`
}

// Topic is the keyword driving one content-generation run. Interest and
// Competition only matter while ranking trend candidates.
type Topic struct {
	Text        string `json:"text"`
	Interest    int    `json:"interest,omitempty"`
	Competition string `json:"competition,omitempty"`
}

// Product is one entry of the static Amazon catalog.
type Product struct {
	Name  string `json:"name"`
	ASIN  string `json:"asin"`
	Price string `json:"price"`
}

// URL returns the marketplace product page, without any tracking parameter.
func (p Product) URL() string {
	return "https://www.amazon.com/dp/" + p.ASIN
}

// Image is a stock photo with attribution, or a hardcoded fallback.
type Image struct {
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	Photographer string `json:"photographer"`
}

// Post is the aggregate produced by one generation run.
type Post struct {
	ID                string   `json:"id"`
	Topic             string   `json:"topic"`
	Title             string   `json:"title"`
	SearchDescription string   `json:"search_description"`
	Labels            []string `json:"labels"`
	HTML              string   `json:"html"`
	CreatedAt         string   `json:"created_at"`
}

// PublishResult is what the blogging platform returns for a created post.
type PublishResult struct {
	PostID string `json:"post_id"`
	URL    string `json:"url"`
}
