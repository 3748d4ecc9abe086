package domain

type Question struct {
	ID            string   `json:"id" yaml:"id"`
	Text          string   `json:"text" yaml:"text"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"-" yaml:"correctAnswer"`
}

type Survey struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Category  string     `json:"category" yaml:"category"`
	Questions []Question `json:"questions" yaml:"questions"`
}

type SurveyResult struct {
	SurveyID      string      `json:"surveyID"`
	Accuracy      float64     `json:"accuracy"`
	QuestionCount int         `json:"questionCount"`
	CorrectCount  int         `json:"correctCount"`
	Tier          PremiumTier `json:"tier"`
	Gross         int64       `json:"gross"`
	Net           int64       `json:"net"`
}
