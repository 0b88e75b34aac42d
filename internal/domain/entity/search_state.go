package entity

// NoMatchBanner is shown above the baseline list when a search found nobody.
const NoMatchBanner = "No specialist found. Showing all doctors."

// SearchState is the transient state of one directory screen.
type SearchState struct {
	Query        string
	Active       bool
	Results      []Doctor
	NoMatchFound bool
}

// DirectoryView is what the rendering layer draws.
type DirectoryView struct {
	Query        string
	Active       bool
	NoMatchFound bool
	Banner       string
	Doctors      []Doctor
}

// Project derives the visible list from the search state and the baseline.
func (s SearchState) Project(baseline []Doctor) DirectoryView {
	view := DirectoryView{
		Query:        s.Query,
		Active:       s.Active,
		NoMatchFound: s.NoMatchFound,
		Doctors:      baseline,
	}
	if s.Active && len(s.Results) > 0 {
		view.Doctors = s.Results
	}
	if s.NoMatchFound {
		view.Banner = NoMatchBanner
	}
	if view.Doctors == nil {
		view.Doctors = []Doctor{}
	}
	return view
}
