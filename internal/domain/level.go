package domain

import (
	"gorm.io/datatypes"
)

// DefaultTimeLimit 是关卡未指定限时时使用的秒数。
const DefaultTimeLimit = 60

// Level 是管理员上传的一道题：图片、答案、提示以及由答案拆出的选项。
type Level struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	ImageURL   string                      `gorm:"size:512;not null" json:"imageUrl"`
	Answer     string                      `gorm:"size:255;not null" json:"answer"`
	Hint       string                      `gorm:"size:512" json:"hint"`
	LevelOrder int                         `gorm:"index" json:"levelOrder"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	RoomID     *uint                       `gorm:"index" json:"roomId"`
	TimeLimit  int                         `gorm:"not null" json:"timeLimit"`
}

// DecomposeAnswer 把答案按字符拆成选项，"CAT" -> ["C","A","T"]。
func DecomposeAnswer(answer string) []string {
	options := make([]string, 0, len(answer))
	for _, r := range answer {
		options = append(options, string(r))
	}
	return options
}
