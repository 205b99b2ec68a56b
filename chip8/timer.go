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

// countdown is an 8bit timer register that counts down to zero and stays
// there.
type countdown uint8

func (c *countdown) Value() uint8 {
	return uint8(*c)
}

func (c *countdown) Set(n uint8) {
	*c = countdown(n)
}

// Dec counts down by one and reports whether the timer just expired, that
// is moved from 1 to 0.
func (c *countdown) Dec() bool {
	if *c == 0 {
		return false
	}
	*c--
	return *c == 0
}
