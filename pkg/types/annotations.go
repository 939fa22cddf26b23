package types

const (
	// AnnotationSourceType is the annotation key for the renderer type.
	AnnotationSourceType = "deploy.soad.dev/source.type"

	// AnnotationSourcePath is the annotation key for the source path/chart identifier.
	AnnotationSourcePath = "deploy.soad.dev/source.path"

	// AnnotationSourceFile is the annotation key for the specific template file.
	AnnotationSourceFile = "deploy.soad.dev/source.file"
)
