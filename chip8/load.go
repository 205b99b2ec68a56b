/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package chip8

import (
	"github.com/spf13/afero"
)

// Load places a program image in memory starting at ProgramStartAddress.
// Nothing else is touched, so Load is expected to follow a Reset.
func (p *Processor) Load(b []byte) error {
	if len(b) > MaxProgramSize {
		return &LoadError{Size: len(b), Err: ErrProgramTooLarge}
	}

	written := p.Write(ProgramStartAddress, b)
	if written < len(b) {
		return &LoadError{Size: len(b), Err: ErrProgramTooLarge}
	}
	return nil
}

// LoadFile reads the program image at path from fs and loads it.
func (p *Processor) LoadFile(fs afero.Fs, path string) error {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	if err := p.Load(b); err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return err
	}
	return nil
}
