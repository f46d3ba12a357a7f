package dto

// ClassroomTokenResponse carries what a client needs to join a
// practice room.
type ClassroomTokenResponse struct {
	Token    string `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	URL      string `json:"url" example:"wss://fluentloop.livekit.cloud"`
	Room     string `json:"room" example:"room_1a2b3c4d"`
	Identity string `json:"identity" example:"user_9f8e7d"`
}
