/*
Copyright © 2026 the FloodViz authors.
This file is part of FloodViz.

FloodViz is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FloodViz is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FloodViz.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package floodviz aggregates and prepares output from an agent-based
// flood-evacuation simulation of the Sittaung River area in Taungoo
// Township, Myanmar. It computes per-day statistics across repeated
// simulation runs, derives the configuration files the simulator consumes,
// and holds the tabular data model shared by the figure-rendering and
// config-generation subpackages.
package floodviz

// Version gives the version number.
const Version = "0.9.1"
