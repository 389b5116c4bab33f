// Bazzite Sunshine Manager
// Copyright (c) 2026 The Bazzite Sunshine Manager Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Bazzite Sunshine Manager.
//
// Bazzite Sunshine Manager is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Bazzite Sunshine Manager is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Bazzite Sunshine Manager.  If not, see <http://www.gnu.org/licenses/>.

package blacklist

// DefaultPatterns match Steam tools, runtimes and other non-game installs.
// Patterns naming system apps ("Big Picture", "Desktop Mode") are left out
// so the system-apps source is never filtered by default.
var DefaultPatterns = []string{
	`\bSteamworks Common Redistributables\b`,
	`\bProton\b`,
	`\bSteam Linux Runtime\b`,
	`\bSteamVR\b|\bOpenVR\b|\bValve Index\b`,
	`\bSoundtracks?\b`,
	`\bDedicated Server\b`,
	`\bSDK\b|\bEditor\b|\bMod Tools\b`,
	`\bDemo\b`,
	`\bBenchmark\b`,
	`\bRedistributables?\b`,
	`\bWorkshop\b`,
}
