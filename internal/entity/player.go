package entity

type Player struct {
	Mark   string `json:"mark"`
	Remote string `json:"remote,omitempty"`
}
