package dashboard

// File is the root structure of dashboard.yaml.
type File struct {
	FavoriteUsers []int64 `yaml:"favorite_users"`
	Grid          Grid    `yaml:"grid"`
}

// Grid holds the listing constraints applied to every gallery query.
type Grid struct {
	PerPage        int     `yaml:"per_page"`
	ForcedTagIDs   []int64 `yaml:"forced_tag_ids"`
	ExcludedTagIDs []int64 `yaml:"excluded_tag_ids"`
}
