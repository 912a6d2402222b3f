// Package document contains the commands operating on a single document.
//
// Every command reads the document selected by --file (stdin by default) in
// --format, wraps it in a container that counts reads and writes and prints
// values or the modified document in --output. Writing commands never touch
// the input file, redirect the output to persist changes:
//
//	hkv -f config.json set db.port 5433 > config.new.json
//	hkv -f base.yaml --format yaml merge override.yaml
//	hkv -f config.json eval 'get("db.port") > 1024'
package document
