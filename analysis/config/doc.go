// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config implements the analysis configuration: the yaml file format
// that names sources, sinks and barriers for taint problems, the numeric
// bounds of the traversals, and the leveled logging used by every analysis.
//
// A Config is an immutable value once loaded. It is passed explicitly to the
// analyses that need it; there is no ambient global configuration.
package config
