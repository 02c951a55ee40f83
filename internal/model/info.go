package model

import "time"

// User describes a platform user.
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	IsBot    bool   `json:"is_bot,omitempty"`
}

// Friend is a user with friend-relationship fields.
type Friend struct {
	User
	Remark   string `json:"remark,omitempty"`
	Category string `json:"category,omitempty"`
}

// GroupInfo describes a chat group.
type GroupInfo struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	MemberCount int    `json:"member_count,omitempty"`
	MaxMembers  int    `json:"max_members,omitempty"`
}

// GroupRole is a member's permission level inside a group.
type GroupRole string

const (
	RoleOwner  GroupRole = "owner"
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

// GroupMember describes a user's membership in a group.
type GroupMember struct {
	User
	GroupID  ID        `json:"group_id"`
	Card     string    `json:"card,omitempty"`
	Title    string    `json:"title,omitempty"`
	Role     GroupRole `json:"role,omitempty"`
	JoinedAt time.Time `json:"joined_at,omitzero"`
	MutedTil time.Time `json:"muted_until,omitzero"`
}

// GuildInfo describes a guild (server) on channel-structured platforms.
type GuildInfo struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// ChannelType distinguishes channel kinds within a guild.
type ChannelType string

const (
	ChannelText     ChannelType = "text"
	ChannelVoice    ChannelType = "voice"
	ChannelCategory ChannelType = "category"
)

// ChannelInfo describes a single channel within a guild.
type ChannelInfo struct {
	ID       ID          `json:"id"`
	GuildID  ID          `json:"guild_id"`
	Name     string      `json:"name"`
	Type     ChannelType `json:"type,omitempty"`
	ParentID ID          `json:"parent_id,omitzero"`
}

// GuildMember describes a user's membership in a guild.
type GuildMember struct {
	User
	GuildID  ID        `json:"guild_id"`
	Roles    []string  `json:"roles,omitempty"`
	JoinedAt time.Time `json:"joined_at,omitzero"`
}

// Announcement is a pinned group announcement.
type Announcement struct {
	ID       ID        `json:"id"`
	GroupID  ID        `json:"group_id"`
	SenderID ID        `json:"sender_id,omitzero"`
	Content  string    `json:"content"`
	PostedAt time.Time `json:"posted_at,omitzero"`
}

// FileInfo describes an uploaded file or folder entry.
type FileInfo struct {
	ID       ID        `json:"id"`
	Name     string    `json:"name"`
	Size     int64     `json:"size,omitempty"`
	URL      string    `json:"url,omitempty"`
	FolderID ID        `json:"folder_id,omitzero"`
	IsFolder bool      `json:"is_folder,omitempty"`
	Uploaded time.Time `json:"uploaded_at,omitzero"`
}

// StoredMessage is a message as returned by history/get operations.
type StoredMessage struct {
	MessageID ID        `json:"message_id"`
	Scene     SceneType `json:"scene"`
	SceneID   ID        `json:"scene_id"`
	Sender    User      `json:"sender"`
	Segments  []Segment `json:"segments"`
	Time      time.Time `json:"time"`
}

// Status is the gateway's liveness report.
type Status struct {
	Online bool `json:"online"`
	Good   bool `json:"good"`
}

// Version identifies the gateway implementation.
type Version struct {
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
	Platform   string `json:"platform,omitempty"`
}
