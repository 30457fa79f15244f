package connection

type ReqCreateGame struct {
	// Zero keeps the server's board size
	BoardSize int `json:"board_size,omitempty"`
}

type ReqPlaceShip struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

type ReqAttack struct {
	X int `json:"x"`
	Y int `json:"y"`
}
