// Package submission handles the filesystem half of a MOSS run: unpacking a
// Canvas bulk export into one folder per student, cleaning up incidental OS
// metadata, and selecting which extracted files are worth uploading.
//
// Canvas names each nested archive [last][first]_[id]_[id]_[original_name];
// the leading identifier becomes the extraction folder so the report is
// readable. Members that do not follow the convention keep their raw name.
package submission
