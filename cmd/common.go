/*
Copyright © 2025 Vadym Kuzemko <vadym.kuzemko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/vkuzemko/filetran/internal/provider"
)

// buildProvider constructs the translation backend from CLI parameters.
func buildProvider(name, mymemoryEmailAddr, libretranslateBaseURL string) (provider.TranslationService, error) {
	switch name {
	case "google":
		return provider.NewGoogleService(), nil
	case "mymemory":
		return provider.NewMyMemoryService(mymemoryEmailAddr), nil
	case "libretranslate":
		return provider.NewLibreTranslateService(libretranslateBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (available: google, mymemory, libretranslate)", name)
	}
}
