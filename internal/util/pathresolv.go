/*
 * admete-go - a UCI chess engine in Go
 *
 * MIT License
 *
 * Copyright (c) 2026 The admete-go authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveFile resolves a path to a file in a specific set of places
// and returns an absolute path to it.
// The order checked is:
//  - if the path is absolute it is returned as is with an error if
//    the file does not exist
//  - if the path is relative we try
//    - relative to the working directory
//    - relative to the executable
//    - relative to the user home directory
func ResolveFile(file string) (string, error) {
	file = filepath.Clean(file)

	// file is an absolute path
	if filepath.IsAbs(file) {
		if fileExists(file) {
			return file, nil
		}
		return file, fmt.Errorf("file could not be found: %s", file)
	}

	// file is a relative path
	if dir, err := os.Getwd(); err == nil {
		if fileExists(filepath.Join(dir, file)) {
			return filepath.Clean(filepath.Join(dir, file)), nil
		}
	}
	if dir, err := os.Executable(); err == nil {
		dir = filepath.Dir(dir)
		if fileExists(filepath.Join(dir, file)) {
			return filepath.Clean(filepath.Join(dir, file)), nil
		}
	}
	if dir, err := os.UserHomeDir(); err == nil {
		if fileExists(filepath.Join(dir, file)) {
			return filepath.Clean(filepath.Join(dir, file)), nil
		}
	}

	return file, fmt.Errorf("file could not be found: %s", file)
}

// ResolveFolder resolves a path to a folder in a specific set of places
// and returns an absolute path to it. The folder will not be created.
// Search order is the same as in ResolveFile.
func ResolveFolder(folder string) (string, error) {
	folder = filepath.Clean(folder)

	// folder is an absolute path
	if filepath.IsAbs(folder) {
		if folderExists(folder) {
			return folder, nil
		}
		return folder, fmt.Errorf("folder could not be found: %s", folder)
	}

	// folder is a relative path
	if dir, err := os.Getwd(); err == nil {
		if folderExists(filepath.Join(dir, folder)) {
			return filepath.Clean(filepath.Join(dir, folder)), nil
		}
	}
	if dir, err := os.Executable(); err == nil {
		dir = filepath.Dir(dir)
		if folderExists(filepath.Join(dir, folder)) {
			return filepath.Clean(filepath.Join(dir, folder)), nil
		}
	}
	if dir, err := os.UserHomeDir(); err == nil {
		if folderExists(filepath.Join(dir, folder)) {
			return filepath.Clean(filepath.Join(dir, folder)), nil
		}
	}

	return folder, fmt.Errorf("folder could not be found: %s", folder)
}

// ResolveCreateFolder resolves a path to a folder and creates the folder
// if it cannot be found. An absolute path is used as is. Of a relative
// path only the last element is used: the folder is looked up or created
// in the working directory, and if it can't be created there, in the os's
// temp directory. The executable and user home directories are not searched.
func ResolveCreateFolder(folderPath string) (string, error) {
	folderPath = filepath.Clean(folderPath)

	// folder is an absolute path
	if filepath.IsAbs(folderPath) {
		if folderExists(folderPath) {
			return folderPath, nil
		}
		errDir := os.Mkdir(folderPath, 0755)
		return folderPath, errDir
	}

	// try working directory
	dir, _ := os.Getwd()
	folderPath = filepath.Join(dir, filepath.Base(folderPath))
	if folderExists(folderPath) {
		return folderPath, nil
	}
	if errDir := os.Mkdir(folderPath, 0755); errDir == nil {
		return folderPath, nil
	}

	// fall back to temp
	folderPath = filepath.Join(os.TempDir(), filepath.Base(folderPath))
	if folderExists(folderPath) {
		return folderPath, nil
	}
	errDir := os.Mkdir(folderPath, 0755)
	return folderPath, errDir
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil || info == nil {
		return false
	}
	return info.Mode().IsRegular()
}

func folderExists(foldername string) bool {
	info, err := os.Stat(foldername)
	if err != nil || info == nil {
		return false
	}
	return info.Mode().IsDir()
}
