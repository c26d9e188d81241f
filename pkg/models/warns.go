package models

// Warning representa una advertencia individual
type Warning struct {
	ID        int       `bson:"id" json:"id"`
	Reason    string    `bson:"reason" json:"reason"`
	Moderator Snowflake `bson:"moderator" json:"moderator"`
	Date      Timestamp `bson:"date" json:"date"`
}

// UserRecord is the per (user, guild) progress document.
// Level is a cache of leveling.LevelFromXP(XP).
type UserRecord struct {
	XP            int64      `bson:"xp" json:"xp"`
	Level         int        `bson:"level" json:"level"`
	MessagesSent  int64      `bson:"messages_sent" json:"messages_sent"`
	LastXPTime    *Timestamp `bson:"last_xp_time" json:"last_xp_time"`
	TotalXPGained int64      `bson:"total_xp_gained" json:"total_xp_gained"`
	JoinDate      Timestamp  `bson:"join_date" json:"join_date"`
	Warnings      []Warning  `bson:"warnings" json:"warnings"`
}

// Clone returns a deep copy of the record
func (r *UserRecord) Clone() *UserRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.LastXPTime != nil {
		ts := *r.LastXPTime
		out.LastXPTime = &ts
	}
	out.Warnings = append([]Warning{}, r.Warnings...)
	return &out
}
