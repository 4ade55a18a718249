package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Hello string `json:"Hello"`
}

type ProfileResponse struct {
	ID                  int64      `json:"id"`
	Username            string     `json:"username"`
	IsActive            bool       `json:"is_active"`
	ShortBiography      string     `json:"short_biography"`
	BirthDate           string     `json:"birth_date"`
	Country             string     `json:"country"`
	City                string     `json:"city"`
	Interests           []Interest `json:"interests"`
	SubscribersNumber   int64      `json:"subscribers_number"`
	SubscriptionsNumber int64      `json:"subscriptions_number"`
	PostsNumber         int64      `json:"posts_number"`
}

type ProfileUpdateRequest struct {
	ShortBiography string   `json:"short_biography"`
	BirthDate      string   `json:"birth_date"`
	Country        string   `json:"country"`
	City           string   `json:"city"`
	Interests      []string `json:"interests"`
}

type UserViewResponse struct {
	ID                int64      `json:"id"`
	Username          string     `json:"username"`
	ShortBiography    string     `json:"short_biography"`
	BirthDate         string     `json:"birth_date"`
	Country           string     `json:"country"`
	City              string     `json:"city"`
	Interests         []Interest `json:"interests"`
	SubscribersNumber int64      `json:"subscribers_number"`
	Posts             []Post     `json:"posts"`
}

type PostRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"post_content" binding:"required,max=1000"`
}

type PostSearchRequest struct {
	TitleSearch   string   `json:"title_search"`
	ContentSearch string   `json:"content_search"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	UsernamesList []string `json:"usernames_list"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
