package domain

// CounterStats is the data field of visit?action=increment|display
type CounterStats struct {
	ID        string `json:"id"`
	Total     int    `json:"total"`
	Today     int    `json:"today"`
	Yesterday int    `json:"yesterday"`
	Week      int    `json:"week"`
	Month     int    `json:"month"`
}

// LikeState is the data field of like?action=get|toggle
type LikeState struct {
	ID        string `json:"id"`
	Total     int    `json:"total"`
	UserLiked bool   `json:"userLiked"`
}

// RankingEntry is one row of a ranking board
type RankingEntry struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	DisplayScore string `json:"displayScore,omitempty"`
	Rank         int    `json:"rank,omitempty"`
}

// RankingBoard is the data field of ranking?action=get
type RankingBoard struct {
	ID      string         `json:"id"`
	Title   string         `json:"title,omitempty"`
	Entries []RankingEntry `json:"entries"`
}

// YokosoMessage is the data field of yokoso?action=get
type YokosoMessage struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
}
