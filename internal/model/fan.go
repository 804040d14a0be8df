package model

import "time"

const (
	FanNameMaxLen    = 100
	FanMessageMaxLen = 200
)

// Fan 留言墙上的一条留言；Photo 为上传目录中的文件名，UserID 为空表示匿名
type Fan struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Message   string    `json:"message" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_fan_created;not null"`
	Photo     *string   `json:"photo,omitempty" gorm:"size:255"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index:idx_fan_user"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

func (Fan) TableName() string { return "fan" }
