package model

// Participation is fetched once per session. Flag reports that the session
// already responded, SentFlag that the session id is recognized.
type Participation struct {
	Flag     bool `json:"flag"`
	SentFlag bool `json:"sentFlag"`
}
