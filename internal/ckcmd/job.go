package ckcmd

// Operation names a ck-cmd subcommand.
type Operation string

const (
	OpExportAnimation Operation = "exportanimation"
	OpImportAnimation Operation = "importanimation"
	OpExportRig       Operation = "exportrig"
	OpImportRig       Operation = "importrig"
	OpImportSkin      Operation = "importskin"
)

// Operations lists every supported operation in display order.
func Operations() []Operation {
	return []Operation{OpExportAnimation, OpImportAnimation, OpExportRig, OpImportRig, OpImportSkin}
}

// FlagStyle selects how a flag and its value are joined.
type FlagStyle int

const (
	// FlagLong renders --name="value".
	FlagLong FlagStyle = iota
	// FlagShort renders -name "value".
	FlagShort
)

// Flag is one named argument. An empty Value still renders the flag.
type Flag struct {
	Name  string
	Value string
	Style FlagStyle
}

// Job is one ck-cmd invocation. Args are positional and rendered before
// Flags, both in order. WorkDir is the output directory the process runs in.
type Job struct {
	Operation Operation
	Args      []string
	Flags     []Flag
	WorkDir   string
}

// ExportAnimation converts an hkx animation (or a directory of them) to fbx.
func ExportAnimation(skeletonHkx, animationHkx, outputDir string) Job {
	return Job{
		Operation: OpExportAnimation,
		Args:      []string{skeletonHkx, animationHkx, outputDir},
		WorkDir:   outputDir,
	}
}

// ImportAnimation converts an fbx animation (or a directory of them) to hkx.
// cacheTxt and behaviorDir are optional.
func ImportAnimation(skeletonHkx, animationFbx, outputDir, cacheTxt, behaviorDir string) Job {
	return Job{
		Operation: OpImportAnimation,
		Args:      []string{skeletonHkx, animationFbx},
		Flags: []Flag{
			{Name: "c", Value: cacheTxt},
			{Name: "b", Value: behaviorDir},
			{Name: "e", Value: outputDir},
		},
		WorkDir: outputDir,
	}
}

// RigExport holds the inputs of an exportrig invocation. Everything after
// OutputDir is optional.
type RigExport struct {
	SkeletonHkx  string
	SkeletonNif  string
	OutputDir    string
	AnimationHkx string
	MeshNif      string
	CacheTxt     string
	BehaviorDir  string
}

// ExportRig converts a skeleton hkx/nif pair to fbx.
func ExportRig(in RigExport) Job {
	return Job{
		Operation: OpExportRig,
		Args:      []string{in.SkeletonHkx, in.SkeletonNif},
		Flags: []Flag{
			{Name: "e", Value: in.OutputDir},
			{Name: "a", Value: in.AnimationHkx},
			{Name: "n", Value: in.MeshNif},
			{Name: "b", Value: in.BehaviorDir},
			{Name: "c", Value: in.CacheTxt},
		},
		WorkDir: in.OutputDir,
	}
}

// ImportRig converts an fbx skeleton to hkx.
func ImportRig(skeletonFbx, outputDir string) Job {
	return Job{
		Operation: OpImportRig,
		Args:      []string{skeletonFbx},
		Flags: []Flag{
			{Name: "a", Value: "", Style: FlagShort},
			{Name: "e", Value: outputDir, Style: FlagShort},
		},
		WorkDir: outputDir,
	}
}

// ImportSkin converts a skinned fbx mesh to nif.
func ImportSkin(skinFbx, outputDir string) Job {
	return Job{
		Operation: OpImportSkin,
		Args:      []string{skinFbx, outputDir},
		WorkDir:   outputDir,
	}
}
