package dto

// QuizItemResponse is the item as presented to the learner
// @Description Quiz item with options in display order
type QuizItemResponse struct {
	ID             string   `json:"id"`
	Variant        string   `json:"variant"`
	Definition     string   `json:"definition"`
	Gloss          string   `json:"gloss,omitempty"`
	Options        []string `json:"options"`
	TargetIndex    int      `json:"target_index"`
	VocabularySize int      `json:"vocabulary_size"`
}

// AnswerRequest represents a user's answer in the API request
// @Description Request body for grading an answer
type AnswerRequest struct {
	ItemID         string `json:"item_id"`
	SelectedOption string `json:"selected_option"`
}

// AnswerResponse tells the client how to mark the options
type AnswerResponse struct {
	ItemID         string  `json:"item_id"`
	Correct        bool    `json:"correct"`
	CorrectAnswer  string  `json:"correct_answer"`
	SelectedOption string  `json:"selected_option"`
	TargetIndex    int     `json:"target_index"`
	Mean           float64 `json:"mean"`
	Variance       float64 `json:"variance"`
}

// ExplanationResponse carries the explanation of the current item
type ExplanationResponse struct {
	ItemID      string `json:"item_id"`
	Explanation string `json:"explanation"`
}

// ProgressResponse reports the learner's position in the vocabulary
type ProgressResponse struct {
	VocabularySize int     `json:"vocabulary_size"`
	Mean           float64 `json:"mean"`
	Variance       float64 `json:"variance"`
	WindowLower    int     `json:"window_lower"`
	WindowUpper    int     `json:"window_upper"`
}

// VocabularyResponse lists known words in rank order
type VocabularyResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
}

// LoadingResponse is returned while no item is ready yet
type LoadingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse reports liveness of the server and its store
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
