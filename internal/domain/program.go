package domain

import "time"

type Program struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// 参考节目表，和最初的演示数据一致
var DefaultPrograms = []Program{
	{Code: "Program A", Title: "Program A", Rating: 8},
	{Code: "Program B", Title: "Program B", Rating: 5},
	{Code: "Program C", Title: "Program C", Rating: 9},
	{Code: "Program D", Title: "Program D", Rating: 6},
	{Code: "Program E", Title: "Program E", Rating: 7},
}
