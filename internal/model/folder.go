package model

// Folder represents a container for media items and other folders.
type Folder struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parentId"` // nil = root level
	OwnerScope string  `json:"ownerScope"`
	Protected  bool    `json:"protected"` // default folder: cannot be moved, renamed, or deleted
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name       string
	ParentID   *string
	OwnerScope string
}

// NewFolder creates a Folder with generated UUID.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:         GenerateUUID(),
		Name:       params.Name,
		ParentID:   params.ParentID,
		OwnerScope: params.OwnerScope,
	}
}
