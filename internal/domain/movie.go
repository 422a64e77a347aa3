package domain

// Movie represents a catalog entry. ExternalID is the stable identifier
// from the upstream catalog (the movie_id column) and stays unchanged
// across re-imports; ID is the local serial key.
type Movie struct {
	ID           int
	Title        string
	Overview     string
	PosterPath   string
	BackdropPath string
	ReleaseDate  string
	Runtime      int
	Genres       string
	VoteAverage  string
	ExternalID   string
}
