/*
Package config loads the search-pairs and filetypes files used by gsr.

	            +-------------+
	            |   Loader    |
	            |  (Source)   |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  JSON   |   |  YAML   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Reads the ordered list of search pairs
- Reads the ordered list of filetype filters
- Turns both into what the engine consumes: a FROM/TO list and filter rules

📝 Search pairs (gsr-config.json):

	[
	  {"OldString": "old_name", "NewString": "new_name", "Match": "full"}
	]

OldString is a literal. Match anchors it: full (^…$), left (^…), right (…$),
anything else leaves it unanchored. NewString may contain \G{...} blocks.

📝 Filetypes (gsr-filetypes-config.json):

	[
	  {"fileType": "*.go"},
	  {"fileType": "vendor/**", "option": "exclude"}
	]

⚡ Notes:
- A missing default file is treated as empty; a missing explicit file is an error
- Every error wraps ErrConfiguration
*/
package config
