package hcl

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// MergeHCLFiles combines multiple HCL files into a single body.
// This mimics how Terraform loads multiple .tf files in a directory: blocks
// accumulate and an attribute may only be set in one file.
func MergeHCLFiles(filePaths []string) (hcl.Body, error) {
	parser := hclparse.NewParser()
	files := make([]*hcl.File, 0, len(filePaths))

	for _, path := range filePaths {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
		}
		files = append(files, file)
	}

	return hcl.MergeFiles(files), nil
}

// ParseBatchDirectory parses all .hcl files in a directory, in lexical order,
// and returns a single merged batch.
func ParseBatchDirectory(dirPath string, conv *settlement.Converter) (*batch.Batch, error) {
	// Find all HCL files in the directory
	var hclFiles []string
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsHCLBasedOnExtension(d.Name()) {
			hclFiles = append(hclFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no HCL files found in directory %s", dirPath)
	}

	body, err := MergeHCLFiles(hclFiles)
	if err != nil {
		return nil, err
	}

	return decodeBatch(body, conv)
}

// LoadBatch reads a batch from a file or directory. Directories are merged
// HCL; files are decoded by their detected format.
func LoadBatch(path string, conv *settlement.Converter) (*batch.Batch, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch %s: %w", path, err)
	}
	if info.IsDir() {
		return ParseBatchDirectory(path, conv)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch %s: %w", path, err)
	}

	format := batch.DetectFormat(path, content)
	if format == batch.FormatHCL {
		return ParseBatch(string(content), conv)
	}

	b, err := batch.Decode(format, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &b, nil
}

// IsHCLBasedOnExtension checks if the filename has an HCL extension
func IsHCLBasedOnExtension(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}
