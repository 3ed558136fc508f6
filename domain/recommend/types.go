package recommend

import "smartcart/domain/transaction"

// Reasoning tags which tier of the fallback chain produced a recommendation.
type Reasoning string

const (
	// ReasoningCollaborative marks scores from the similarity/factor blend.
	ReasoningCollaborative Reasoning = "collaborative"
	// ReasoningContentBased marks item-similarity fill recommendations.
	ReasoningContentBased Reasoning = "content-based"
	// ReasoningPopularity marks cold-start popularity recommendations.
	ReasoningPopularity Reasoning = "popularity"
)

// Recommendation is one recommended product. Score is relative within its
// reasoning tier; scores are not normalized across tiers.
type Recommendation struct {
	Product   string    `json:"product"`
	Score     float64   `json:"score"`
	Reasoning Reasoning `json:"reasoning"`
}

// SimilarCustomer is a nearest-neighbor customer by cosine similarity.
type SimilarCustomer struct {
	CustomerID transaction.CustomerID `json:"customer_id"`
	Similarity float64                `json:"similarity"`
}

// SimilarProduct is a nearest-neighbor product by cosine similarity.
type SimilarProduct struct {
	Product    string  `json:"product"`
	Similarity float64 `json:"similarity"`
}
