package model

// Statistics - снимок счётчиков поданных заявок
type Statistics struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
	AllTime int `json:"all_time"`
	Users   int `json:"users"`
}

// BroadcastReport - итог одной рассылки
type BroadcastReport struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
	Delivered  int    `json:"delivered"`
	Failed     int    `json:"failed"`
}
