package model

type FileObject interface {
	GetFilename() string
	GetParent() string
	GetContent() []byte
}
